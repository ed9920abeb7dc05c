package repository

import (
	"ProgJulia/internal/config"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log/slog"
)

const (
	usersCollection        = "users"
	groupsCollection       = "groups"
	invitesCollection      = "invites"
	lessonsCollection      = "lessons"
	certificatesCollection = "certificate-tasks"
	googleCollection       = "google-credentials"
	countersCollection     = "counters"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// nextID hands out sequential numeric ids; operators type them in chat.
func (m *MongoDB) nextID(ctx context.Context, connection *mongo.Client, name string) (int64, error) {
	collection := connection.Database(m.database).Collection(countersCollection)
	filter := bson.D{{"_id", name}}
	update := bson.D{{"$inc", bson.D{{"seq", int64(1)}}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongodb counter %s: %w", name, err)
	}
	return counter.Seq, nil
}

// EnsureIndexes creates the lookup indexes used by the admin commands.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{"id", 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{"telegram_chat_id", 1}}},
			{Keys: bson.D{{"groups", 1}}},
		},
		groupsCollection: {
			{Keys: bson.D{{"name", 1}}, Options: options.Index().SetUnique(true)},
		},
		invitesCollection: {
			{Keys: bson.D{{"code", 1}}, Options: options.Index().SetUnique(true)},
		},
		lessonsCollection: {
			{Keys: bson.D{{"spreadsheet_id", 1}, {"sheet_number", 1}}},
		},
	}
	for name, models := range indexes {
		if _, err = db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
