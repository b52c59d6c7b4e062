package vehicle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fleet-campus-admin/internal/domain/blob"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/mocks"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryRepo struct {
	domainVehicle.Repository

	vehicles  map[uuid.UUID]domainVehicle.Vehicle
	documents []*domainVehicle.Document
	docErr    error
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domainVehicle.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *memoryRepo) Update(_ context.Context, v *domainVehicle.Vehicle) error {
	r.vehicles[v.ID] = *v
	return nil
}

func (r *memoryRepo) CreateDocument(_ context.Context, d *domainVehicle.Document) error {
	if r.docErr != nil {
		return r.docErr
	}
	d.ID = uuid.New()
	r.documents = append(r.documents, d)
	return nil
}

var garageNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func newVehicleService(t *testing.T) (*Service, *memoryRepo, *mocks.MockStore, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	repo := &memoryRepo{vehicles: map[uuid.UUID]domainVehicle.Vehicle{
		id: {ID: id, Name: "Tata Ace", Capacity: 750, Status: domainVehicle.StatusAvailable, IsActive: true},
	}}
	store := mocks.NewMockStore(gomock.NewController(t))
	svc := NewService(repo, store)
	svc.now = func() time.Time { return garageNow }
	return svc, repo, store, id
}

func TestUploadDocument(t *testing.T) {
	svc, repo, store, id := newVehicleService(t)
	uploader := uuid.New()
	wantKey := blob.Key("vehicles", id, "permit.PDF", garageNow)
	expired := garageNow.AddDate(0, 0, -1)

	store.EXPECT().
		Put(gomock.Any(), wantKey, gomock.Any(), "application/pdf").
		Return(&blob.Object{Key: wantKey, URL: "https://files.example/" + wantKey}, nil)

	resp, err := svc.UploadDocument(context.Background(), id, uploader,
		&UploadDocumentRequest{Type: "permit", Title: " State permit ", ExpiryDate: &expired},
		&blob.Upload{Filename: "permit.PDF", ContentType: "application/pdf", Body: strings.NewReader("%PDF-1.4")})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(wantKey, ".pdf"))
	assert.Equal(t, "State permit", resp.Title)
	assert.True(t, resp.IsExpired)
	require.Len(t, repo.documents, 1)
	assert.Equal(t, uploader, *repo.documents[0].UploadedBy)
}

func TestUploadDocument_RemovesOrphanedFile(t *testing.T) {
	svc, repo, store, id := newVehicleService(t)
	repo.docErr = errors.New("insert failed")

	store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&blob.Object{Key: "vehicles/x/1.png"}, nil)
	store.EXPECT().Delete(gomock.Any(), "vehicles/x/1.png").Return(nil)

	_, err := svc.UploadDocument(context.Background(), id, uuid.New(),
		&UploadDocumentRequest{Type: "insurance", Title: "Policy"},
		&blob.Upload{Filename: "policy.png", Body: strings.NewReader("png")})

	assert.EqualError(t, err, "insert failed")
}

func TestUploadDocument_Rejections(t *testing.T) {
	svc, _, _, id := newVehicleService(t)
	ctx := context.Background()
	body := &blob.Upload{Filename: "a.pdf", Body: strings.NewReader("x")}

	_, err := svc.UploadDocument(ctx, id, uuid.New(), &UploadDocumentRequest{Type: "selfie", Title: "x"}, body)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	_, err = svc.UploadDocument(ctx, id, uuid.New(), &UploadDocumentRequest{Type: "permit", Title: "x"}, nil)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	_, err = svc.UploadDocument(ctx, uuid.New(), uuid.New(), &UploadDocumentRequest{Type: "permit", Title: "x"}, body)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestDelete_RetiresVehicle(t *testing.T) {
	svc, repo, _, id := newVehicleService(t)

	require.NoError(t, svc.Delete(context.Background(), id))

	v := repo.vehicles[id]
	assert.False(t, v.IsActive)
	assert.Equal(t, domainVehicle.StatusRetired, v.Status)
}

func TestDelete_RefusesVehicleOnTrip(t *testing.T) {
	svc, repo, _, id := newVehicleService(t)
	v := repo.vehicles[id]
	v.Status = domainVehicle.StatusOnTrip
	repo.vehicles[id] = v

	err := svc.Delete(context.Background(), id)

	assert.Equal(t, "VEHICLE_ON_TRIP", appErrors.CodeOf(err))
	assert.True(t, repo.vehicles[id].IsActive)
}

func TestCheckCapacity_InactiveVehicleIsNotFound(t *testing.T) {
	svc, repo, _, id := newVehicleService(t)
	v := repo.vehicles[id]
	v.IsActive = false
	repo.vehicles[id] = v

	_, err := svc.CheckCapacity(context.Background(), id, 10)

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
