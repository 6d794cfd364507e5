package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

const collectionRequests = "requests"

// RequestRepository implements ports.RequestRepository on MongoDB.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

type noteDoc struct {
	ID        primitive.ObjectID  `bson:"_id"`
	Text      string              `bson:"text"`
	Author    *primitive.ObjectID `bson:"author,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
}

type requestDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Name        string              `bson:"name"`
	Phone       string              `bson:"phone"`
	Email       string              `bson:"email"`
	Description string              `bson:"description"`
	Status      string              `bson:"status"`
	Priority    string              `bson:"priority"`
	CreatedBy   *primitive.ObjectID `bson:"created_by,omitempty"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty"`
	Notes       []noteDoc           `bson:"notes"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d *requestDoc) toDomain() *domain.ServiceRequest {
	req := &domain.ServiceRequest{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       d.Email,
		Description: d.Description,
		Status:      domain.RequestStatus(d.Status),
		Priority:    domain.RequestPriority(d.Priority),
		Notes:       make([]domain.Note, 0, len(d.Notes)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CreatedBy != nil {
		req.CreatedByID = d.CreatedBy.Hex()
	}
	if d.AssignedTo != nil {
		req.AssignedToID = d.AssignedTo.Hex()
	}
	for _, n := range d.Notes {
		req.Notes = append(req.Notes, n.toDomain())
	}
	return req
}

func (n *noteDoc) toDomain() domain.Note {
	note := domain.Note{
		ID:        n.ID.Hex(),
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
	}
	if n.Author != nil {
		note.AuthorID = n.Author.Hex()
	}
	return note
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := requestDoc{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		Status:      string(req.Status),
		Priority:    string(req.Priority),
		Notes:       []noteDoc{},
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
	if req.CreatedByID != "" {
		oid, err := primitive.ObjectIDFromHex(req.CreatedByID)
		if err != nil {
			return nil, fmt.Errorf("invalid created_by id: %w", err)
		}
		doc.CreatedBy = &oid
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	created := *req
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain(), nil
}

// buildSort turns the resolved sort column into a Mongo sort document. When
// the primary field is not created_at, created_at descending is appended so
// documents with equal primary values keep a stable page order.
func buildSort(field string, asc bool) bson.D {
	dir := -1
	if asc {
		dir = 1
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "created_at" {
		sort = append(sort, bson.E{Key: "created_at", Value: -1})
	}
	return sort
}

// List applies exact status/priority filters and a case-insensitive substring
// search ORed across name, email and description. When sorting by a field
// other than created_at, created_at descending is appended as a stable
// tie-breaker.
func (r *RequestRepository) List(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.ServiceRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	opts := options.Find().
		SetSort(buildSort(filter.SortField, filter.SortAsc)).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer cur.Close(ctx)

	var requests []*domain.ServiceRequest
	for cur.Next(ctx) {
		var doc requestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode request: %w", err)
		}
		requests = append(requests, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return requests, total, nil
}

func (r *RequestRepository) Update(ctx context.Context, id string, upd ports.RequestUpdate) (*domain.ServiceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.Priority != nil {
		set["priority"] = string(*upd.Priority)
	}
	if upd.AssignedToID != nil {
		if *upd.AssignedToID == "" {
			unset["assigned_to"] = ""
		} else {
			aid, err := primitive.ObjectIDFromHex(*upd.AssignedToID)
			if err != nil {
				return nil, fmt.Errorf("invalid assigned_to id: %w", err)
			}
			set["assigned_to"] = aid
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc requestDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("update request: %w", err)
	}
	return doc.toDomain(), nil
}

// AddNote appends to the notes array ($push keeps the list append-only) and
// returns the full updated list.
func (r *RequestRepository) AddNote(ctx context.Context, id string, note domain.Note) ([]domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
	}
	if note.AuthorID != "" {
		aid, err := primitive.ObjectIDFromHex(note.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid note author id: %w", err)
		}
		doc.Author = &aid
	}

	update := bson.M{
		"$push": bson.M{"notes": doc},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated requestDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("add note: %w", err)
	}

	notes := make([]domain.Note, 0, len(updated.Notes))
	for _, n := range updated.Notes {
		notes = append(notes, n.toDomain())
	}
	return notes, nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// Counts runs a single $facet aggregation grouping by status and by priority.
// Empty buckets are absent here; the service layer zero-fills them.
func (r *RequestRepository) Counts(ctx context.Context) (*ports.RequestCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	groupBy := func(field string) bson.A {
		return bson.A{bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "by_status", Value: groupBy("status")},
			{Key: "by_priority", Value: groupBy("priority")},
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate request counts: %w", err)
	}
	defer cur.Close(ctx)

	var results []struct {
		ByStatus []struct {
			Key   string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"by_status"`
		ByPriority []struct {
			Key   string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"by_priority"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode request counts: %w", err)
	}

	counts := &ports.RequestCounts{}
	if len(results) == 0 {
		return counts, nil
	}
	for _, b := range results[0].ByStatus {
		counts.ByStatus = append(counts.ByStatus, ports.StatusCount{Key: b.Key, Count: b.Count})
	}
	for _, b := range results[0].ByPriority {
		counts.ByPriority = append(counts.ByPriority, ports.StatusCount{Key: b.Key, Count: b.Count})
	}
	if len(results[0].Total) > 0 {
		counts.Total = results[0].Total[0].Count
	}
	return counts, nil
}

// EnsureIndexes creates the indexes backing the list filters and sorts.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
