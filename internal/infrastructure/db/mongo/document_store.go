package mongo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lppm/portal-auth/internal/core/domain"
)

const (
	cvBucket      = "cv"
	uploadTimeout = 30 * time.Second
)

// DocumentStore keeps uploaded CVs in a GridFS bucket. References are the
// hex ObjectID of the stored file.
type DocumentStore struct {
	db *mongo.Database
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{db: db}
}

// bucket returns a fresh handle per call; gridfs.Bucket carries per-operation
// deadlines and must not be shared between requests.
func (s *DocumentStore) bucket() (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(cvBucket))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return b, nil
}

func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) (domain.DocumentRef, error) {
	bucket, err := s.bucket()
	if err != nil {
		return "", err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(uploadTimeout)
	}
	if err := bucket.SetWriteDeadline(deadline); err != nil {
		return "", fmt.Errorf("set upload deadline: %w", err)
	}

	id := primitive.NewObjectID()
	name := storedName(doc.Filename)
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "original_name", Value: doc.Filename},
		{Key: "content_type", Value: doc.ContentType},
		{Key: "size", Value: doc.Size},
	})

	if err := bucket.UploadFromStreamWithID(id, name, doc.Content, opts); err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}
	return domain.DocumentRef(id.Hex()), nil
}

// Delete removes the stored file. A file that is already gone is not an error.
func (s *DocumentStore) Delete(ctx context.Context, ref domain.DocumentRef) error {
	id, err := primitive.ObjectIDFromHex(string(ref))
	if err != nil {
		return fmt.Errorf("document ref %q: %w", ref, err)
	}
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	if err := bucket.DeleteContext(ctx, id); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// storedName makes object names unique while keeping the extension for downloads.
func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return cvBucket + "-" + uuid.NewString() + ext
}
