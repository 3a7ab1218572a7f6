package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection    = "users"
	messagesCollection = "messages"
)

// Store implements store.Store on MongoDB. Users carry their social graph as
// followers/following id arrays, the layout the social frontend writes.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	messages *mongo.Collection
}

var _ store.Store = (*Store)(nil)

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	log.Info("database connected", "driver", "mongo", "database", dbName)
	return &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		messages: db.Collection(messagesCollection),
	}, nil
}

// EnsureIndexes creates the indexes the message queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}

	_, err = s.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "isRead", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create messages indexes: %w", err)
	}
	log.Info("MongoDB indexes ensured")
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, userToDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()})
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	user := doc.toModel()
	return &user, nil
}

func (s *Store) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

func (s *Store) SocialNeighbors(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	doc, err := s.socialDoc(ctx, id, "followers", "following")
	if err != nil {
		return nil, err
	}
	return parseRefs(id, append(append([]string{}, doc.Followers...), doc.Following...)), nil
}

func (s *Store) FollowingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	doc, err := s.socialDoc(ctx, id, "following")
	if err != nil {
		return nil, err
	}
	return parseRefs(id, doc.Following), nil
}

func (s *Store) FollowerIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	doc, err := s.socialDoc(ctx, id, "followers")
	if err != nil {
		return nil, err
	}
	return parseRefs(id, doc.Followers), nil
}

func (s *Store) socialDoc(ctx context.Context, id uuid.UUID, fields ...string) (userDoc, error) {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}

	var doc userDoc
	opts := options.FindOne().SetProjection(projection)
	if err := s.users.FindOne(ctx, bson.M{"_id": id.String()}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userDoc{}, store.ErrNotFound
		}
		return userDoc{}, err
	}
	return doc, nil
}

func (s *Store) SearchUsers(ctx context.Context, exclude uuid.UUID, query string, limit int) ([]models.User, error) {
	match := bson.M{"_id": bson.M{"$ne": exclude.String()}}
	projection := bson.M{"password": 0, "followers": 0, "following": 0}

	var cursor *mongo.Cursor
	var err error
	query = strings.TrimSpace(query)
	if query == "" {
		cursor, err = s.users.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: match}},
			{{Key: "$sample", Value: bson.M{"size": limit}}},
			{{Key: "$project", Value: projection}},
		})
	} else {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"username": pattern},
			bson.M{"fullName": pattern},
		}
		opts := options.Find().
			SetProjection(projection).
			SetSort(bson.D{{Key: "username", Value: 1}}).
			SetLimit(int64(limit))
		cursor, err = s.users.Find(ctx, match, opts)
	}
	if err != nil {
		return nil, err
	}

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	now := time.Now().UTC()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now

	_, err := s.messages.InsertOne(ctx, messageToDoc(msg))
	return err
}

func (s *Store) MessagesInvolving(ctx context.Context, id uuid.UUID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"from": id.String()},
		bson.M{"to": id.String()},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"from": 1, "to": 1, "createdAt": 1})
	return s.findMessages(ctx, filter, opts)
}

func (s *Store) MessagesBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"from": a.String(), "to": b.String()},
		bson.M{"from": b.String(), "to": a.String()},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return s.findMessages(ctx, filter, opts)
}

func (s *Store) findMessages(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]models.Message, error) {
	cursor, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		m, err := d.toModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (s *Store) MarkRead(ctx context.Context, from, to uuid.UUID) (int64, error) {
	res, err := s.messages.UpdateMany(ctx,
		bson.M{"from": from.String(), "to": to.String(), "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) CountUnreadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.messages.CountDocuments(ctx, bson.M{
		"isRead":    false,
		"createdAt": bson.M{"$lt": cutoff.UTC()},
	})
}

func parseRefs(owner uuid.UUID, refs []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		parsed, err := uuid.Parse(r)
		if err != nil {
			log.Warn("skipping malformed social graph reference", "user", owner, "ref", r)
			continue
		}
		ids = append(ids, parsed)
	}
	return ids
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
