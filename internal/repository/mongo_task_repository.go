package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/promanage-api/internal/database"
	"github.com/yukikurage/promanage-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository.
// The checklist is embedded in the task document.
type MongoTaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoTaskRepository creates a TaskRepository backed by the tasks collection
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{
		coll: db.Collection(database.TasksCollection),
		now:  time.Now,
	}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Checklist = prepareChecklist(task.ID, task.Checklist)
	now := r.now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	} else {
		task.CreatedAt = task.CreatedAt.UTC()
	}
	task.UpdatedAt = now
	task.DueDate = utcPtr(task.DueDate)

	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return translateMongoError(err)
	}
	return nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	normalizeChecklist(&task)
	return &task, nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{"refUserId": filter.OwnerID}
	created := bson.M{}
	if filter.CreatedFrom != nil {
		created["$gte"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		created["$lt"] = *filter.CreatedTo
	}
	if len(created) > 0 {
		query["createdAt"] = created
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		normalizeChecklist(&tasks[i])
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Replace(ctx context.Context, id string, fields TaskFields) (*models.Task, error) {
	set := bson.M{
		"title":     fields.Title,
		"priority":  fields.Priority,
		"checklist": prepareChecklist(id, fields.Checklist),
		"status":    fields.Status,
		"updatedAt": r.now().UTC(),
	}
	update := bson.M{"$set": set}
	if fields.DueDate != nil {
		set["dueDate"] = *fields.DueDate
	} else {
		update["$unset"] = bson.M{"dueDate": ""}
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *MongoTaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": r.now().UTC(),
	}})
}

func (r *MongoTaskRepository) SetChecklistItem(ctx context.Context, taskID, itemID string, selected bool) (*models.Task, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": taskID, "checklist._id": itemID},
		bson.M{"$set": bson.M{
			"checklist.$.selected": selected,
			"updatedAt":            r.now().UTC(),
		}},
	)
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Count(ctx context.Context, filter TaskCountFilter) (int64, error) {
	query := bson.M{"refUserId": filter.OwnerID}
	status := bson.M{}
	if filter.Status != nil {
		status["$eq"] = *filter.Status
	}
	if filter.ExcludeStatus != nil {
		status["$ne"] = *filter.ExcludeStatus
	}
	if len(status) > 0 {
		query["status"] = status
	}
	if filter.Priority != nil {
		query["priority.typeOfPriority"] = *filter.Priority
	}
	if filter.HasDueDate {
		query["dueDate"] = bson.M{"$ne": nil}
	}

	return r.coll.CountDocuments(ctx, query)
}

func (r *MongoTaskRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Task, error) {
	var task models.Task
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		return nil, translateMongoError(err)
	}
	normalizeChecklist(&task)
	return &task, nil
}

func normalizeChecklist(task *models.Task) {
	if task.Checklist == nil {
		task.Checklist = []models.ChecklistItem{}
	}
	for i := range task.Checklist {
		task.Checklist[i].TaskID = task.ID
		task.Checklist[i].Position = i
	}
}
