package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

const accountCollection = "accounts"

// AccountRepository implements ports.AccountRepository on MongoDB.
type AccountRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewAccountRepository(client *mongo.Client, db *mongo.Database) *AccountRepository {
	return &AccountRepository{client: client, coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password_hash"`
	Role         string               `bson:"role"`
	IsBlocked    bool                 `bson:"is_blocked"`
	CreatedBy    primitive.ObjectID   `bson:"created_by,omitempty"`
	GroupedWith  []primitive.ObjectID `bson:"grouped_with,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (d *accountDoc) toDomain() *domain.Account {
	account := &domain.Account{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsBlocked:    d.IsBlocked,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	// Stored role strings are normalized on the way out; legacy casings in
	// old documents never leak past the repository.
	if role, ok := domain.ParseRole(d.Role); ok {
		account.Role = role
	} else {
		account.Role = domain.Role(d.Role)
	}
	if !d.CreatedBy.IsZero() {
		account.CreatedBy = d.CreatedBy.Hex()
	}
	for _, peer := range d.GroupedWith {
		account.GroupedWith = append(account.GroupedWith, peer.Hex())
	}
	return account
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDoc{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		IsBlocked:    account.IsBlocked,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if account.CreatedBy != "" {
		creator, err := accountID(account.CreatedBy)
		if err != nil {
			return nil, err
		}
		doc.CreatedBy = creator
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateOne(ctx, id, bson.M{"role": string(role)})
}

func (r *AccountRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return r.updateOne(ctx, id, bson.M{"is_blocked": blocked})
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ListNonTopAdmin(ctx context.Context) ([]*domain.Account, error) {
	return r.find(ctx, bson.M{"role": bson.M{"$ne": string(domain.RoleTopAdmin)}}, newestFirst())
}

func (r *AccountRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.Account, error) {
	oid, err := accountID(creatorID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"created_by": oid}, newestFirst())
}

func (r *AccountRepository) CountByCreator(ctx context.Context, creatorID string) (int64, error) {
	oid, err := accountID(creatorID)
	if err != nil {
		return 0, err
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"created_by": oid})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (r *AccountRepository) ListActiveByRole(ctx context.Context, role domain.Role, excludeID string) ([]*domain.Account, error) {
	filter := bson.M{
		"role":       string(role),
		"is_blocked": false,
	}
	if excludeID != "" {
		oid, err := accountID(excludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.find(ctx, filter, nil)
}

func (r *AccountRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := accountID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

// AddPeer adds each account to the other's peer set. Both writes run inside
// one transaction so a failure cannot leave a one-sided link.
func (r *AccountRepository) AddPeer(ctx context.Context, a, b string) error {
	return r.pairedPeerWrite(ctx, a, b, "$addToSet")
}

// RemovePeer removes the link from both sides, transactionally.
func (r *AccountRepository) RemovePeer(ctx context.Context, a, b string) error {
	return r.pairedPeerWrite(ctx, a, b, "$pull")
}

func (r *AccountRepository) pairedPeerWrite(ctx context.Context, a, b, op string) error {
	aID, err := accountID(a)
	if err != nil {
		return err
	}
	bID, err := accountID(b)
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.coll.UpdateOne(sc, bson.M{"_id": aID}, bson.M{op: bson.M{"grouped_with": bID}}); err != nil {
			return nil, err
		}
		if _, err := r.coll.UpdateOne(sc, bson.M{"_id": bID}, bson.M{op: bson.M{"grouped_with": aID}}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("peer write: %w", err)
	}
	return nil
}

func (r *AccountRepository) DetachPeers(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateMany(ctx,
		bson.M{"grouped_with": oid},
		bson.M{"$pull": bson.M{"grouped_with": oid}},
	)
	if err != nil {
		return fmt.Errorf("detach peers: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Account, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cursor, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*domain.Account{}
	for cursor.Next(ctx) {
		var doc accountDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, doc.toDomain())
	}
	return accounts, cursor.Err()
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func accountID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrAccountNotFound
	}
	return oid, nil
}

func (r *AccountRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}
	set["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
