package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fleet-campus-admin/internal/domain/blob"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

func (s *Service) AddExpense(ctx context.Context, tripID, createdBy uuid.UUID, req *AddExpenseRequest) (*ExpenseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status == domainTrip.StatusCancelled {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus, "Cannot add expenses to a cancelled trip", nil)
	}

	expense := &domainTrip.Expense{
		TripID:      tripID,
		Type:        domainTrip.ExpenseType(req.Type),
		Amount:      req.Amount,
		Description: utils.SanitizeText(req.Description),
		CreatedBy:   &createdBy,
	}
	if req.IncurredAt != nil {
		expense.IncurredAt = *req.IncurredAt
	}
	if err := s.tripRepo.AddExpense(ctx, expense); err != nil {
		return nil, err
	}

	logger.Info("Trip expense added",
		zap.String("trip_id", tripID.String()),
		zap.String("type", req.Type),
		zap.Float64("amount", req.Amount),
		zap.String("event", "trip_expense_added"),
	)

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// ListExpenses returns the trip's expenses with their total and average.
func (s *Service) ListExpenses(ctx context.Context, tripID uuid.UUID) (*ExpenseListResponse, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	expenses, err := s.tripRepo.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, err
	}

	resp := &ExpenseListResponse{
		Expenses: make([]ExpenseResponse, 0, len(expenses)),
		Count:    len(expenses),
	}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, ToExpenseResponse(e))
		resp.Total += e.Amount
	}
	if resp.Count > 0 {
		resp.Average = resp.Total / float64(resp.Count)
	}
	return resp, nil
}

// AddCheckpoint appends a waypoint. Without an explicit sequence it goes
// after the last one.
func (s *Service) AddCheckpoint(ctx context.Context, tripID uuid.UUID, req *AddCheckpointRequest) (*CheckpointResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if err := ValidateCheckpointTimes(req.ArrivalTime, req.DepartureTime); err != nil {
		return nil, err
	}

	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status == domainTrip.StatusCompleted || t.Status == domainTrip.StatusCancelled {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus,
			fmt.Sprintf("Cannot add checkpoints to a %s trip", t.Status), nil)
	}

	sequence := req.Sequence
	if sequence == 0 {
		existing, err := s.tripRepo.ListCheckpoints(ctx, tripID)
		if err != nil {
			return nil, err
		}
		sequence = 1
		if n := len(existing); n > 0 {
			sequence = existing[n-1].Sequence + 1
		}
	}

	checkpoint := &domainTrip.Checkpoint{
		TripID:        tripID,
		Sequence:      sequence,
		Location:      utils.SanitizeString(req.Location),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		Notes:         utils.SanitizeText(req.Notes),
	}
	if err := s.tripRepo.AddCheckpoint(ctx, checkpoint); err != nil {
		if appErrors.IsUniqueViolation(err, "sequence") {
			return nil, appErrors.NewAppError("CHECKPOINT_SEQUENCE_EXISTS",
				fmt.Sprintf("Checkpoint %d already exists on this trip", sequence), err)
		}
		return nil, err
	}

	resp := ToCheckpointResponse(checkpoint)
	return &resp, nil
}

func (s *Service) ListCheckpoints(ctx context.Context, tripID uuid.UUID) ([]CheckpointResponse, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	checkpoints, err := s.tripRepo.ListCheckpoints(ctx, tripID)
	if err != nil {
		return nil, err
	}

	items := make([]CheckpointResponse, 0, len(checkpoints))
	for _, c := range checkpoints {
		items = append(items, ToCheckpointResponse(c))
	}
	return items, nil
}

func (s *Service) CompleteCheckpoint(ctx context.Context, tripID, checkpointID uuid.UUID, req *CompleteCheckpointRequest) (*CheckpointResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	checkpoint, err := s.tripRepo.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	if checkpoint.TripID != tripID {
		return nil, domainTrip.ErrCheckpointNotFound
	}
	if checkpoint.IsCompleted {
		return nil, appErrors.NewAppError("ALREADY_COMPLETED", "Checkpoint is already completed", nil)
	}

	now := s.now()
	checkpoint.IsCompleted = true
	if req.ArrivalTime != nil {
		checkpoint.ArrivalTime = req.ArrivalTime
	} else if checkpoint.ArrivalTime == nil {
		checkpoint.ArrivalTime = &now
	}
	if req.DepartureTime != nil {
		checkpoint.DepartureTime = req.DepartureTime
	}
	if req.Notes != nil {
		checkpoint.Notes = utils.SanitizeText(*req.Notes)
	}
	if err := ValidateCheckpointTimes(checkpoint.ArrivalTime, checkpoint.DepartureTime); err != nil {
		return nil, err
	}

	if err := s.tripRepo.UpdateCheckpoint(ctx, checkpoint); err != nil {
		return nil, err
	}

	logger.Info("Trip checkpoint reached",
		zap.String("trip_id", tripID.String()),
		zap.Int("sequence", checkpoint.Sequence),
		zap.String("event", "trip_checkpoint_completed"),
	)

	resp := ToCheckpointResponse(checkpoint)
	return &resp, nil
}

// Route builds the GeoJSON path through the trip's positioned checkpoints.
func (s *Service) Route(ctx context.Context, tripID uuid.UUID) (*RouteResponse, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	checkpoints, err := s.tripRepo.ListCheckpoints(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return BuildRoute(tripID, checkpoints)
}

// BuildRoute converts ordered checkpoints into a LineString. Checkpoints
// without coordinates are skipped.
func BuildRoute(tripID uuid.UUID, checkpoints []*domainTrip.Checkpoint) (*RouteResponse, error) {
	coords := make([]geom.Coord, 0, len(checkpoints))
	resp := &RouteResponse{TripID: tripID, Geometry: json.RawMessage("null")}

	var prev *domainTrip.Checkpoint
	for _, c := range checkpoints {
		if !c.HasPosition() {
			continue
		}
		coords = append(coords, geom.Coord{*c.Longitude, *c.Latitude})
		if prev != nil {
			resp.DistanceKm += domainTrip.HaversineKm(*prev.Latitude, *prev.Longitude, *c.Latitude, *c.Longitude)
		}
		prev = c
	}
	resp.Points = len(coords)
	if len(coords) < 2 {
		return resp, nil
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to build route: %w", err)
	}
	encoded, err := gjson.Encode(line)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route: %w", err)
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route: %w", err)
	}
	resp.Geometry = raw
	return resp, nil
}

func (s *Service) UploadDocument(ctx context.Context, tripID, uploadedBy uuid.UUID, req *UploadDocumentRequest, file *blob.Upload) (*DocumentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if file == nil || file.Body == nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", errors.New("file is required"))
	}

	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	obj, err := s.store.Put(ctx, blob.Key("trips", tripID, file.Filename, s.now()), file.Body, file.ContentType)
	if err != nil {
		return nil, err
	}

	doc := &domainTrip.Document{
		TripID:     tripID,
		Type:       domainTrip.DocumentType(req.Type),
		Title:      utils.SanitizeString(req.Title),
		FileKey:    obj.Key,
		FileURL:    obj.URL,
		UploadedBy: &uploadedBy,
	}
	if err := s.tripRepo.AddDocument(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			logger.Warn("Failed to remove orphaned upload", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info("Trip document uploaded",
		zap.String("trip_id", tripID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("event", "trip_document_uploaded"),
	)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

func (s *Service) ListDocuments(ctx context.Context, tripID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	docs, err := s.tripRepo.ListDocuments(ctx, tripID)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, ToDocumentResponse(d))
	}
	return items, nil
}
