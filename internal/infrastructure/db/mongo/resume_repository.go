package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

const (
	collectionResumes = "resumes"

	idxPublicURL = "uniq_public_url"
)

// ResumeRepository implements ports.ResumeRepository using MongoDB.
type ResumeRepository struct {
	col *mongo.Collection
	ids *Sequence
}

func NewResumeRepository(db *mongo.Database) *ResumeRepository {
	return &ResumeRepository{
		col: db.Collection(collectionResumes),
		ids: NewSequence(db, collectionResumes),
	}
}

// Create inserts a new resume document with a fresh integer id.
func (r *ResumeRepository) Create(ctx context.Context, resume *domain.Resume) (*domain.Resume, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	id, err := r.ids.Next(ctx)
	if err != nil {
		return nil, err
	}

	doc := *resume
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, &doc); err != nil {
		if duplicateIndex(err, idxPublicURL) != "" {
			return nil, domain.ErrPublicLinkTaken
		}
		return nil, fmt.Errorf("insert resume: %w", err)
	}
	return &doc, nil
}

func (r *ResumeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Resume, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var res domain.Resume
	if err := r.col.FindOne(ctx, filter).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResumeNotFound
		}
		return nil, fmt.Errorf("find resume: %w", err)
	}
	return &res, nil
}

func (r *ResumeRepository) FindByID(ctx context.Context, id int64) (*domain.Resume, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindPublicByLink only matches resumes currently flagged public.
func (r *ResumeRepository) FindPublicByLink(ctx context.Context, link string) (*domain.Resume, error) {
	return r.findOne(ctx, bson.M{"public_url": link, "is_public": true})
}

func (r *ResumeRepository) find(ctx context.Context, filter bson.M) ([]*domain.Resume, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	out := []*domain.Resume{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	return out, nil
}

func (r *ResumeRepository) ListAll(ctx context.Context) ([]*domain.Resume, error) {
	return r.find(ctx, bson.M{})
}

func (r *ResumeRepository) ListByOwner(ctx context.Context, userID int64) ([]*domain.Resume, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ResumeRepository) ListPublic(ctx context.Context) ([]*domain.Resume, error) {
	return r.find(ctx, bson.M{"is_public": true})
}

// Update writes content fields only.
func (r *ResumeRepository) Update(ctx context.Context, resume *domain.Resume) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": resume.ID}, bson.M{"$set": bson.M{
		"title":         resume.Title,
		"personal_info": resume.PersonalInfo,
		"summary":       resume.Summary,
		"educations":    resume.Educations,
		"experiences":   resume.Experiences,
		"skills":        resume.Skills,
		"template_name": resume.TemplateName,
		"updated_at":    resume.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResumeNotFound
	}
	return nil
}

// SetVisibility flips the public flag. Making a resume public without a
// link is refused by the filter so the flag never outruns the link.
func (r *ResumeRepository) SetVisibility(ctx context.Context, id int64, public bool) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": id}
	if public {
		filter["public_url"] = bson.M{"$type": "string", "$ne": ""}
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_public": public}})
	if err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepository) DeleteByOwner(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete resumes of user %d: %w", userID, err)
	}
	return nil
}

// ClaimPublicLink sets public_url only while the resume has none. The
// unique partial index on public_url turns a cross-resume collision into a
// duplicate-key error, so check and insert are one atomic write.
func (r *ResumeRepository) ClaimPublicLink(ctx context.Context, resumeID int64, link string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id": resumeID,
		"$or": bson.A{
			bson.M{"public_url": bson.M{"$exists": false}},
			bson.M{"public_url": ""},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var claimed domain.Resume
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"public_url": link}}, opts).Decode(&claimed)
	switch {
	case err == nil:
		return claimed.PublicURL, nil
	case duplicateIndex(err, idxPublicURL) != "":
		return "", domain.ErrPublicLinkTaken
	case !errors.Is(err, mongo.ErrNoDocuments):
		return "", fmt.Errorf("claim public link: %w", err)
	}

	// Nothing matched: either the resume is gone or it already has a link.
	existing, err := r.FindByID(ctx, resumeID)
	if err != nil {
		return "", err
	}
	if existing.PublicURL == "" {
		return "", fmt.Errorf("claim public link: resume %d changed concurrently", resumeID)
	}
	return existing.PublicURL, nil
}

// EnsureIndexes creates the owner lookup index and the unique public link
// index. The partial filter leaves resumes without a link out of the
// uniqueness constraint.
func (r *ResumeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_public", Value: 1}}},
		{
			Keys: bson.D{{Key: "public_url", Value: 1}},
			Options: options.Index().
				SetName(idxPublicURL).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"public_url": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("resumes indexes: %w", err)
	}
	return nil
}
