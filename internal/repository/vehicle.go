package repository

import (
	"context"
	"errors"
	"time"

	"firetrack-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VehicleRepository persists vehicles as single documents that embed their
// equipment and history. Mongo applies one update document atomically, so
// every WithHistory operation commits the state change and the log entry
// together or not at all.
type VehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{
		collection: db.Collection("vehicles"),
	}
}

func (r *VehicleRepository) Create(vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	vehicle.ID = result.InsertedID.(primitive.ObjectID)
	return vehicle, nil
}

func (r *VehicleRepository) FindByID(id string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid vehicle ID")
	}

	var vehicle models.Vehicle
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("vehicle not found")
		}
		return nil, err
	}

	return &vehicle, nil
}

func (r *VehicleRepository) FindByCallSign(callSign string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"call_sign": callSign}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("vehicle not found")
		}
		return nil, err
	}

	return &vehicle, nil
}

func (r *VehicleRepository) FindAll() ([]*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "call_sign", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, nil
}

// UpdateStatusWithHistory sets the operational status and prepends the log
// entry in one update.
func (r *VehicleRepository) UpdateStatusWithHistory(vehicleID, status string, entry models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	update := bson.M{
		"$set":  bson.M{"status": status, "updated_at": time.Now()},
		"$push": prependHistory(entry),
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("vehicle not found")
	}

	return nil
}

// CreateEquipmentWithHistory appends a new equipment item and its log entry
// in one update.
func (r *VehicleRepository) CreateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	update := bson.M{
		"$set": bson.M{"updated_at": time.Now()},
		"$push": bson.M{
			"equipment": eq,
			"history":   prependHistory(entry)["history"],
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("vehicle not found")
	}

	return nil
}

// UpdateEquipmentWithHistory replaces an equipment item in place. A non-nil
// entry is prepended to the history in the same update; passing nil updates
// the item without logging (notes edits).
func (r *VehicleRepository) UpdateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry *models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	update := bson.M{
		"$set": bson.M{
			"equipment.$": eq,
			"updated_at":  time.Now(),
		},
	}
	if entry != nil {
		update["$push"] = prependHistory(*entry)
	}

	filter := bson.M{"_id": objectID, "equipment._id": eq.ID}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("equipment not found")
	}

	return nil
}

// DeleteEquipmentWithHistory pulls the item from the inventory and prepends
// the removal entry in one update.
func (r *VehicleRepository) DeleteEquipmentWithHistory(vehicleID string, equipmentID primitive.ObjectID, entry models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	update := bson.M{
		"$set":  bson.M{"updated_at": time.Now()},
		"$pull": bson.M{"equipment": bson.M{"_id": equipmentID}},
		"$push": prependHistory(entry),
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("vehicle not found")
	}

	return nil
}

func (r *VehicleRepository) AppendHistoryEntry(vehicleID string, entry models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	update := bson.M{
		"$set":  bson.M{"updated_at": time.Now()},
		"$push": prependHistory(entry),
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("vehicle not found")
	}

	return nil
}

func (r *VehicleRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid vehicle ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("vehicle not found")
	}

	return nil
}

func (r *VehicleRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

// prependHistory builds the $push fragment that keeps the history array
// stored newest-first.
func prependHistory(entry models.HistoryEntry) bson.M {
	return bson.M{
		"history": bson.M{
			"$each":     []models.HistoryEntry{entry},
			"$position": 0,
		},
	}
}

// CreateIndexes creates necessary indexes for the vehicles collection.
func (r *VehicleRepository) CreateIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "call_sign", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
