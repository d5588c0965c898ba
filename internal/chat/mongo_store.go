package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/screenhall/roomctl/internal/apperr"
	"github.com/screenhall/roomctl/internal/domain"
)

// MongoStore is the document-store Store backend: a flat "messages"
// collection, queried by room_id equality and sorted by timestamp. No
// Firebase/Firestore client is attested anywhere in the retrieved
// example pack, so this backend is built on the mongo-driver usage found
// in the pack's standalone public-vc reference file instead.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &MongoStore{coll: client.Database(dbName).Collection("messages")}, nil
}

type mongoMessage struct {
	ID        string     `bson:"_id"`
	RoomID    string     `bson:"room_id"`
	UserID    string     `bson:"user_id"`
	UserName  string     `bson:"user_name"`
	Text      string     `bson:"message"`
	Timestamp int64      `bson:"timestamp"`
	Reactions []Reaction `bson:"reactions,omitempty"`
}

func toMongo(m Message) mongoMessage {
	return mongoMessage{
		ID:        m.ID,
		RoomID:    string(m.RoomID),
		UserID:    string(m.UserID),
		UserName:  m.UserName,
		Text:      m.Text,
		Timestamp: m.Timestamp,
		Reactions: m.Reactions,
	}
}

func fromMongo(m mongoMessage) Message {
	return Message{
		ID:        m.ID,
		RoomID:    domain.RoomID(m.RoomID),
		UserID:    domain.UserID(m.UserID),
		UserName:  m.UserName,
		Text:      m.Text,
		Timestamp: m.Timestamp,
		Reactions: m.Reactions,
	}
}

func (s *MongoStore) SaveMessage(msg Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.coll.InsertOne(ctx, toMongo(msg))
	return err
}

func (s *MongoStore) GetMessages(roomID domain.RoomID, limit int) ([]Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{"room_id": string(roomID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Message
	for cur.Next(ctx) {
		var m mongoMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, fromMongo(m))
	}
	return out, cur.Err()
}

func (s *MongoStore) DeleteRoomMessages(roomID domain.RoomID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.coll.DeleteMany(ctx, bson.M{"room_id": string(roomID)})
	return err
}

func (s *MongoStore) AddReaction(roomID domain.RoomID, messageID string, uid domain.UserID, emoji string) (Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var m mongoMessage
	err := s.coll.FindOne(ctx, bson.M{"room_id": string(roomID), "_id": messageID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return Message{}, apperr.ErrNotFound
	}
	if err != nil {
		return Message{}, err
	}

	msg := fromMongo(m)
	msg.toggleReaction(emoji, uid)

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"room_id": string(roomID), "_id": messageID},
		bson.M{"$set": bson.M{"reactions": msg.Reactions}},
	)
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}
