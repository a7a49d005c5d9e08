package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

const usersCollection = "users"

// UserRepository persists accounts in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoRole struct {
	Name string `bson:"name"`
}

type mongoUser struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"first_name"`
	LastName    string             `bson:"last_name"`
	DateOfBirth string             `bson:"date_of_birth"`
	// DateOfBirthSort holds the same date as an ISO string so the name
	// sort can order it chronologically; the display string sorts by day
	// first.
	DateOfBirthSort string      `bson:"date_of_birth_sort"`
	PhoneNumber     string      `bson:"phone_number"`
	Email           string      `bson:"email"`
	PasswordHash    string      `bson:"password_hash"`
	RegisterDate    string      `bson:"register_date"`
	Country         string      `bson:"country,omitempty"`
	Currency        string      `bson:"currency,omitempty"`
	City            string      `bson:"city,omitempty"`
	Roles           []mongoRole `bson:"roles"`
}

// searchFields maps the wire-level search options onto document fields.
var searchFields = map[string]string{
	domain.SearchByFirstName:   "first_name",
	domain.SearchByLastName:    "last_name",
	domain.SearchByPhoneNumber: "phone_number",
	domain.SearchByEmail:       "email",
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromDoc(&mu), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by email: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) Update(ctx context.Context, originalEmail string, user *domain.User) error {
	doc := toDoc(user)
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": originalEmail}, bson.M{"$set": doc})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	filter := bson.M{}
	if f.SearchField != "" {
		field, ok := searchFields[f.SearchField]
		if !ok {
			return nil, 0, domain.ErrMissingParameter
		}
		filter[field] = f.SearchTerm
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count listing: %w", err)
	}

	// Natural insertion order unless the name sort is requested.
	sort := bson.D{{Key: "_id", Value: 1}}
	if f.SortByName {
		sort = bson.D{{Key: "last_name", Value: 1}, {Key: "date_of_birth_sort", Value: 1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(f.Page) * int64(f.Size)).
		SetLimit(int64(f.Size))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find listing: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, fromDoc(&mu))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listing: %w", err)
	}

	return users, total, nil
}

func toDoc(u *domain.User) mongoUser {
	roles := make([]mongoRole, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, mongoRole{Name: r.Name})
	}
	return mongoUser{
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		DateOfBirth:     u.DateOfBirth,
		DateOfBirthSort: domain.BirthDateSortKey(u.DateOfBirth),
		PhoneNumber:     u.PhoneNumber,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		RegisterDate:    u.RegisterDate,
		Country:         u.Country,
		Currency:        u.Currency,
		City:            u.City,
		Roles:           roles,
	}
}

func fromDoc(mu *mongoUser) *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, r := range mu.Roles {
		roles = append(roles, domain.Role{Name: r.Name})
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		DateOfBirth:  mu.DateOfBirth,
		PhoneNumber:  mu.PhoneNumber,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		RegisterDate: mu.RegisterDate,
		Country:      mu.Country,
		Currency:     mu.Currency,
		City:         mu.City,
		Roles:        roles,
	}
}
