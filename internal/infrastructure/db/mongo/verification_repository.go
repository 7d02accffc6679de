package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

const verificationCollection = "auth_verifications"

// VerificationRepository implements ports.VerificationRepository on MongoDB.
//
// Codes and one-time passwords are consumed with conditional updates keyed on
// the current value, and the failed-attempt counter is incremented with an
// aggregation-pipeline update that opens the lockout window in the same
// write. Single-document atomicity makes both race-free without transactions.
type VerificationRepository struct {
	coll *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{coll: db.Collection(verificationCollection)}
}

type mongoVerification struct {
	AccountID      string `bson:"account_id"`
	EmailVerified  bool   `bson:"email_verified"`
	PhoneVerified  bool   `bson:"phone_verified"`
	Code           string `bson:"code"`
	RandomPassword string `bson:"random_password"`
	ExpiresAt      int64  `bson:"expires_at"`
	LoginAttempts  int    `bson:"login_attempts"`
	LockedUntil    int64  `bson:"locked_until"`
}

func (r *VerificationRepository) Create(ctx context.Context, accountID string) error {
	_, err := r.coll.InsertOne(ctx, mongoVerification{AccountID: accountID})
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func (r *VerificationRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.VerificationRecord, error) {
	var doc mongoVerification
	if err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, fmt.Errorf("find verification record: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VerificationRepository) SetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	return r.setFields(ctx, accountID, bson.M{
		"code":       code,
		"expires_at": expiresAt.Unix(),
	})
}

func (r *VerificationRepository) ConsumeEmailCode(ctx context.Context, accountID, code string) error {
	return r.consumeCode(ctx, accountID, code, "email_verified")
}

func (r *VerificationRepository) ConsumePhoneCode(ctx context.Context, accountID, code string) error {
	return r.consumeCode(ctx, accountID, code, "phone_verified")
}

// consumeCode flips the channel flag and clears the code only when the
// stored code still matches, so concurrent submissions cannot spend the same
// code twice.
func (r *VerificationRepository) consumeCode(ctx context.Context, accountID, code, flagField string) error {
	filter := bson.M{"account_id": accountID, "code": code}
	update := bson.M{"$set": bson.M{
		flagField:    true,
		"code":       "",
		"expires_at": int64(0),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidCode
	}
	return nil
}

func (r *VerificationRepository) SetRandomPassword(ctx context.Context, accountID, randomPassword string, expiresAt time.Time) error {
	return r.setFields(ctx, accountID, bson.M{
		"random_password": randomPassword,
		"expires_at":      expiresAt.Unix(),
	})
}

func (r *VerificationRepository) ClearRandomPassword(ctx context.Context, accountID, randomPassword string) error {
	filter := bson.M{"account_id": accountID, "random_password": randomPassword}
	update := bson.M{"$set": bson.M{
		"random_password": "",
		"expires_at":      int64(0),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("clear random password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidRandomPassword
	}
	return nil
}

func (r *VerificationRepository) RecordFailedAttempt(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (int, error) {
	// Pipeline update: increment and, when the incremented value reaches the
	// threshold, set the lockout deadline — one atomic write.
	incremented := bson.M{"$add": bson.A{"$login_attempts", 1}}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"login_attempts": incremented,
			"locked_until": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{incremented, threshold}},
				lockUntil.Unix(),
				"$locked_until",
			}},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoVerification
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"account_id": accountID}, pipeline, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, domain.ErrVerificationNotFound
		}
		return 0, fmt.Errorf("record failed attempt: %w", err)
	}
	return doc.LoginAttempts, nil
}

func (r *VerificationRepository) ResetAttempts(ctx context.Context, accountID string) error {
	return r.setFields(ctx, accountID, bson.M{
		"login_attempts": 0,
		"locked_until":   int64(0),
	})
}

func (r *VerificationRepository) setFields(ctx context.Context, accountID string, fields bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"account_id": accountID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update verification record: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVerificationNotFound
	}
	return nil
}

func (m *mongoVerification) toDomain() *domain.VerificationRecord {
	rec := &domain.VerificationRecord{
		AccountID:      m.AccountID,
		EmailVerified:  m.EmailVerified,
		PhoneVerified:  m.PhoneVerified,
		Code:           m.Code,
		RandomPassword: m.RandomPassword,
		LoginAttempts:  m.LoginAttempts,
	}
	if m.ExpiresAt != 0 {
		t := unixToTime(m.ExpiresAt)
		rec.ExpiresAt = &t
	}
	if m.LockedUntil != 0 {
		t := unixToTime(m.LockedUntil)
		rec.LockedUntil = &t
	}
	return rec
}
