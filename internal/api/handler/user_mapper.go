package handler

import (
	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterUserInput(r registerUserRequest) ports.RegisterUserInput {
	return ports.RegisterUserInput{
		Name:           r.Name,
		Email:          r.Email,
		Password:       r.Password,
		IdentityNumber: r.NIDN,
		Faculty:        r.Fakultas,
	}
}

func toRegisterDosenInput(r registerDosenRequest) ports.RegisterDosenInput {
	return ports.RegisterDosenInput{
		Name:                 r.Name,
		BirthPlace:           r.TempatLahir,
		BirthDate:            r.TanggalLahir,
		Gender:               r.JenisKelamin,
		Address:              r.Alamat,
		Phone:                r.NomorHP,
		Email:                r.Email,
		IdentityNumber:       r.NIDN,
		Faculty:              r.Fakultas,
		StudyProgram:         r.ProgramStudi,
		Username:             r.Username,
		Password:             r.Password,
		PasswordConfirmation: r.KonfirmasiPassword,
	}
}

func toRegisterReviewerInput(r registerReviewerRequest, doc *domain.Document) ports.RegisterReviewerInput {
	return ports.RegisterReviewerInput{
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.NomorHP,
		Institution:          r.Instansi,
		Expertise:            r.BidangKeahlian,
		ReviewExperience:     r.PengalamanReview,
		Username:             r.Username,
		Password:             r.Password,
		PasswordConfirmation: r.KonfirmasiPassword,
		Document:             doc,
	}
}

func toLoginInput(r loginRequest) ports.LoginInput {
	return ports.LoginInput{
		Identifier: r.Identifier,
		Email:      r.Email,
		Password:   r.Password,
		RememberMe: r.RememberMe,
	}
}

func toUpdateProfileInput(r updateProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Name:           r.Name,
		IdentityNumber: r.NIDN,
		Faculty:        r.Fakultas,
	}
}

// --- Domain → HTTP response ---

func toRoleResponse(r domain.RoleRecord) roleResponse {
	return roleResponse{ID: r.ID, Roles: r.Name.String()}
}

func toRegisteredUserResponse(u *domain.User) registeredUserResponse {
	return registeredUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		NIDN:      u.IdentityNumber,
		Fakultas:  u.Faculty,
		Role:      u.Role.Name.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toLoginResponse(r *ports.LoginResult) loginResponse {
	return loginResponse{
		Message:     "login successful",
		Token:       r.Token,
		AccessToken: r.Token,
		ExpiresAt:   r.ExpiresAt.UTC(),
		User: loginUserResponse{
			ID:       r.User.ID,
			Name:     r.User.Name,
			Email:    r.User.Email,
			Roles:    toRoleResponse(r.User.Role),
			NIDN:     r.User.IdentityNumber,
			Fakultas: r.User.Faculty,
		},
	}
}

func toMeResponse(u *domain.User) meResponse {
	return meResponse{
		ID:               u.ID,
		Name:             u.Name,
		Username:         u.Username,
		Email:            u.Email,
		NomorHP:          u.Phone,
		IsActive:         u.IsActive,
		Roles:            toRoleResponse(u.Role),
		NIDN:             u.IdentityNumber,
		Fakultas:         u.Faculty,
		ProgramStudi:     u.StudyProgram,
		Instansi:         u.Institution,
		BidangKeahlian:   u.Expertise,
		PengalamanReview: u.ReviewExperience,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		NIDN:      u.IdentityNumber,
		Fakultas:  u.Faculty,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
		Roles:     toRoleResponse(u.Role),
	}
}

func toUserListResponse(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toDosenProfileResponse(u *domain.User) dosenProfileResponse {
	return dosenProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		NIDN:      u.IdentityNumber,
		Fakultas:  u.Faculty,
		Roles:     u.Role.Name.String(),
		CreatedAt: u.CreatedAt.UTC(),
	}
}
