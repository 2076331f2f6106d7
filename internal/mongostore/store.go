// Package mongostore is the MongoDB backed event and comment store. Each
// event is one document, replaced as a whole under a version filter.
package mongostore

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

const (
	eventsCollection   = "events"
	commentsCollection = "event_comments"
	readsCollection    = "comment_reads"
)

// Store implements events.Store and events.CommentStore on MongoDB.
type Store struct {
	client   *mongo.Client
	events   *mongo.Collection
	comments *mongo.Collection
	reads    *mongo.Collection
}

// Connect dials uri, checks the connection and makes sure the indexes
// exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(dbName)
	s := &Store{
		client:   client,
		events:   db.Collection(eventsCollection),
		comments: db.Collection(commentsCollection),
		reads:    db.Collection(readsCollection),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	log.Println("mongostore: connected to", dbName)
	return s, nil
}

// EnsureIndexes creates the indexes the queries rely on. Creating an
// existing index is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "short_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}
	_, err = s.reads.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateEvent(ctx context.Context, ev *models.Event) error {
	_, err := s.events.InsertOne(ctx, toEventDocument(ev))
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Wrap(apperrors.CodeConflict, "event already exists", err)
	}
	return storeErr(err, "event")
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.findEvent(ctx, bson.M{"_id": id})
}

func (s *Store) GetEventByShortCode(ctx context.Context, code string) (*models.Event, error) {
	return s.findEvent(ctx, bson.M{"short_code": code})
}

func (s *Store) findEvent(ctx context.Context, filter bson.M) (*models.Event, error) {
	var doc eventDocument
	if err := s.events.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, storeErr(err, "event")
	}
	return doc.toModel(), nil
}

// ListEventsByRoom returns the room's events ordered by creation time.
func (s *Store) ListEventsByRoom(ctx context.Context, roomID string) ([]*models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.events.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	defer cursor.Close(ctx)

	evs := []*models.Event{}
	for cursor.Next(ctx) {
		var doc eventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr(err, "event")
		}
		evs = append(evs, doc.toModel())
	}
	return evs, storeErr(cursor.Err(), "event")
}

// SaveEvent replaces the document if its version still equals
// expectedVersion.
func (s *Store) SaveEvent(ctx context.Context, ev *models.Event, expectedVersion int64) error {
	res, err := s.events.ReplaceOne(ctx, bson.M{"_id": ev.ID, "version": expectedVersion}, toEventDocument(ev))
	if err != nil {
		return storeErr(err, "event")
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.events.CountDocuments(ctx, bson.M{"_id": ev.ID})
	if err != nil {
		return storeErr(err, "event")
	}
	if n == 0 {
		return apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	return apperrors.New(apperrors.CodeConflict, "event was modified concurrently")
}

// DeleteEvent removes the event document, then its comments and read
// marks.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err, "event")
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"event_id": id}); err != nil {
		return storeErr(err, "comment")
	}
	if _, err := s.reads.DeleteMany(ctx, bson.M{"event_id": id}); err != nil {
		return storeErr(err, "read mark")
	}
	return nil
}

func (s *Store) ShortCodeTaken(ctx context.Context, code string) (bool, error) {
	n, err := s.events.CountDocuments(ctx, bson.M{"short_code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeErr(err, "event")
	}
	return n > 0, nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	_, err := s.comments.InsertOne(ctx, toCommentDocument(c))
	return storeErr(err, "comment")
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var doc commentDocument
	if err := s.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, storeErr(err, "comment")
	}
	return doc.toModel(), nil
}

// ListComments returns one page of an event's comments, newest first.
func (s *Store) ListComments(ctx context.Context, eventID string, q models.CommentQuery) ([]*models.Comment, error) {
	filter := bson.M{"event_id": eventID}
	if q.Phase != "" {
		filter["phase"] = string(q.Phase)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := s.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeErr(err, "comment")
	}
	out := make([]*models.Comment, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err, "comment")
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.CodeNotFound, "comment not found")
	}
	return nil
}

// MarkCommentsRead upserts the user's read mark for the event.
func (s *Store) MarkCommentsRead(ctx context.Context, eventID, userID string, at time.Time) error {
	_, err := s.reads.UpdateOne(ctx,
		bson.M{"event_id": eventID, "user_id": userID},
		bson.M{"$set": bson.M{"last_read_at": at}},
		options.Update().SetUpsert(true),
	)
	return storeErr(err, "read mark")
}

// CountUnreadComments counts comments by other users newer than the read
// mark.
func (s *Store) CountUnreadComments(ctx context.Context, eventID, userID string) (int, error) {
	filter := bson.M{"event_id": eventID, "user_id": bson.M{"$ne": userID}}

	var mark readMarkDocument
	err := s.reads.FindOne(ctx, bson.M{"event_id": eventID, "user_id": userID}).Decode(&mark)
	switch {
	case err == nil:
		filter["created_at"] = bson.M{"$gt": mark.LastReadAt}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return 0, storeErr(err, "read mark")
	}

	n, err := s.comments.CountDocuments(ctx, filter)
	if err != nil {
		return 0, storeErr(err, "comment")
	}
	return int(n), nil
}

func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.New(apperrors.CodeNotFound, what+" not found")
	}
	return apperrors.Wrap(apperrors.CodeInternal, "database error", err)
}
