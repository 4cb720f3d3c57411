package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"cargolink/internal/models"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"
	"cargolink/pkg/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Filters from the authz scopes are exercised in
// the authz package; these fakes keep service tests focused on behavior.

func testLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	return log
}

type fakePackageRepo struct {
	mu       sync.Mutex
	packages map[primitive.ObjectID]*models.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: make(map[primitive.ObjectID]*models.Package)}
}

func (r *fakePackageRepo) Create(ctx context.Context, pkg *models.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg.ID = primitive.NewObjectID()
	pkg.Status = models.PackageStatusAvailable
	pkg.BookedBy = nil
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = time.Now()
	clone := *pkg
	r.packages[pkg.ID] = &clone
	return nil
}

func (r *fakePackageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return nil, utils.NewNotFoundError("Package")
	}
	clone := *pkg
	return &clone, nil
}

func (r *fakePackageRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return utils.NewNotFoundError("Package")
	}
	for key, value := range updates {
		switch key {
		case "title":
			pkg.Title = value.(string)
		case "description":
			pkg.Description = value.(string)
		case "pickup_location":
			pkg.PickupLocation = value.(string)
		case "drop_location":
			pkg.DropLocation = value.(string)
		case "weight":
			pkg.Weight = value.(float64)
		case "price_expectation":
			pkg.PriceExpectation = value.(float64)
		case "image_key":
			pkg.ImageKey = value.(string)
		}
	}
	pkg.UpdatedAt = time.Now()
	return nil
}

func (r *fakePackageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[id]; !ok {
		return utils.NewNotFoundError("Package")
	}
	delete(r.packages, id)
	return nil
}

func (r *fakePackageRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Package, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Package
	for _, pkg := range r.packages {
		clone := *pkg
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakePackageRepo) EnterNegotiating(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pkg, ok := r.packages[id]; ok && pkg.Status == models.PackageStatusAvailable {
		pkg.Status = models.PackageStatusNegotiating
	}
	return nil
}

func (r *fakePackageRepo) FinalizeBooking(ctx context.Context, id, transporterID primitive.ObjectID, price float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return false, nil
	}
	if pkg.Status != models.PackageStatusAvailable && pkg.Status != models.PackageStatusNegotiating {
		return false, nil
	}
	tid := transporterID
	pkg.Status = models.PackageStatusBooked
	pkg.BookedBy = &tid
	pkg.PriceExpectation = price
	return true, nil
}

func (r *fakePackageRepo) MarkLoaded(ctx context.Context, id, transporterID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok || pkg.Status != models.PackageStatusBooked || pkg.BookedBy == nil || *pkg.BookedBy != transporterID {
		return false, nil
	}
	pkg.Status = models.PackageStatusLoaded
	return true, nil
}

func (r *fakePackageRepo) MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok || pkg.Status != models.PackageStatusLoaded {
		return false, nil
	}
	pkg.Status = models.PackageStatusDelivered
	return true, nil
}

func (r *fakePackageRepo) CountByStatus(ctx context.Context, filter bson.M) (map[models.PackageStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.PackageStatus]int64)
	for _, pkg := range r.packages {
		counts[pkg.Status]++
	}
	return counts, nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[primitive.ObjectID]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[primitive.ObjectID]*models.Offer)}
}

func (r *fakeOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer.ID = primitive.NewObjectID()
	offer.Status = models.OfferStatusPending
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = time.Now()
	clone := *offer
	r.offers[offer.ID] = &clone
	return nil
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, utils.NewNotFoundError("Offer")
	}
	clone := *offer
	return &clone, nil
}

func (r *fakeOfferRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return utils.NewNotFoundError("Offer")
	}
	for key, value := range updates {
		switch key {
		case "offer_price":
			offer.OfferPrice = value.(float64)
		case "status":
			offer.Status = value.(models.OfferStatus)
		case "changed_by_owner":
			offer.ChangedByOwner = value.(bool)
		}
	}
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOfferRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Offer
	for _, offer := range r.offers {
		clone := *offer
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeOfferRepo) FindBetween(ctx context.Context, packageID, a, b primitive.ObjectID) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.PackageID != packageID {
			continue
		}
		if (offer.SenderID == a && offer.ReceiverID == b) || (offer.SenderID == b && offer.ReceiverID == a) {
			clone := *offer
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("Offer")
}

func (r *fakeOfferRepo) RejectPendingForPackage(ctx context.Context, packageID primitive.ObjectID, except *primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.PackageID != packageID || offer.Status != models.OfferStatusPending {
			continue
		}
		if except != nil && offer.ID == *except {
			continue
		}
		offer.Status = models.OfferStatusRejected
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return utils.NewConflictError(utils.ErrUserExists)
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return utils.NewNotFoundError("User")
	}
	for key, value := range updates {
		switch key {
		case "password":
			user.Password = value.(string)
		case "company_name":
			user.CompanyName = value.(string)
		case "phone_no":
			user.PhoneNo = value.(string)
		case "address":
			user.Address = value.(string)
		case "state":
			user.State = value.(string)
		case "country":
			user.Country = value.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[primitive.ObjectID]*models.Invoice

	// staleExists makes ExistsForPackage report no invoice while Create
	// still enforces the unique package index, like a reader racing a
	// concurrent insert.
	staleExists bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[primitive.ObjectID]*models.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.PackageID == invoice.PackageID {
			return utils.NewValidationError("Invoice already exists for this package")
		}
	}
	invoice.ID = primitive.NewObjectID()
	clone := *invoice
	r.invoices[invoice.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, utils.NewNotFoundError("Invoice")
	}
	clone := *invoice
	return &clone, nil
}

func (r *fakeInvoiceRepo) GetByPackageID(ctx context.Context, packageID primitive.ObjectID) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.PackageID == packageID {
			clone := *invoice
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("Invoice")
}

func (r *fakeInvoiceRepo) ExistsForPackage(ctx context.Context, packageID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleExists {
		return false, nil
	}
	for _, invoice := range r.invoices {
		if invoice.PackageID == packageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Invoice
	for _, invoice := range r.invoices {
		clone := *invoice
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return utils.NewNotFoundError("Invoice")
	}
	if paid, exists := updates["paid"]; exists {
		invoice.Paid = paid.(bool)
	}
	return nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vehicles {
		if existing.TruckNumber == vehicle.TruckNumber {
			return utils.NewConflictError("A vehicle with this truck number already exists")
		}
	}
	vehicle.ID = primitive.NewObjectID()
	clone := *vehicle
	r.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, utils.NewNotFoundError("Vehicle")
	}
	clone := *vehicle
	return &clone, nil
}

func (r *fakeVehicleRepo) GetByTruckNumber(ctx context.Context, truckNumber string) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, vehicle := range r.vehicles {
		if vehicle.TruckNumber == truckNumber {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("Vehicle")
}

func (r *fakeVehicleRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		clone := *vehicle
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeVehicleRepo) ListByTransporter(ctx context.Context, transporterID primitive.ObjectID) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.TransporterID == transporterID {
			clone := *vehicle
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return utils.NewNotFoundError("Vehicle")
	}
	for key, value := range updates {
		switch key {
		case "truck_model":
			vehicle.TruckModel = value.(string)
		case "truck_number":
			vehicle.TruckNumber = value.(string)
		case "capacity":
			vehicle.Capacity = value.(float64)
		case "wheels":
			vehicle.Wheels = value.(int)
		case "available":
			vehicle.Available = value.(bool)
		}
	}
	return nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return utils.NewNotFoundError("Vehicle")
	}
	delete(r.vehicles, id)
	return nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[primitive.ObjectID]*models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[primitive.ObjectID]*models.Staff)}
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff.ID = primitive.NewObjectID()
	clone := *staff
	r.staff[staff.ID] = &clone
	return nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.staff[id]
	if !ok {
		return nil, utils.NewNotFoundError("Staff")
	}
	clone := *member
	return &clone, nil
}

func (r *fakeStaffRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Staff, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Staff
	for _, member := range r.staff {
		clone := *member
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeStaffRepo) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Staff
	for _, member := range r.staff {
		if member.VehicleID == vehicleID {
			clone := *member
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.staff[id]
	if !ok {
		return utils.NewNotFoundError("Staff")
	}
	for key, value := range updates {
		switch key {
		case "vehicle_id":
			member.VehicleID = value.(primitive.ObjectID)
		case "name":
			member.Name = value.(string)
		case "contact":
			member.Contact = value.(string)
		case "license_number":
			member.LicenseNumber = value.(string)
		case "role":
			member.Role = value.(models.StaffRole)
		}
	}
	return nil
}

func (r *fakeStaffRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return utils.NewNotFoundError("Staff")
	}
	delete(r.staff, id)
	return nil
}

func (r *fakeStaffRepo) CountByVehicleAndRole(ctx context.Context, vehicleID primitive.ObjectID, role models.StaffRole, exclude *primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, member := range r.staff {
		if member.VehicleID != vehicleID || member.Role != role {
			continue
		}
		if exclude != nil && member.ID == *exclude {
			continue
		}
		count++
	}
	return count, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	rooms    map[primitive.ObjectID]*models.ChatRoom
	messages map[primitive.ObjectID][]*models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:    make(map[primitive.ObjectID]*models.ChatRoom),
		messages: make(map[primitive.ObjectID][]*models.ChatMessage),
	}
}

func (r *fakeChatRepo) GetOrCreateRoom(ctx context.Context, packageID, ownerID, transporterID primitive.ObjectID) (*models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.PackageID == packageID && room.OwnerID == ownerID && room.TransporterID == transporterID {
			clone := *room
			return &clone, nil
		}
	}
	room := &models.ChatRoom{
		ID:            primitive.NewObjectID(),
		PackageID:     packageID,
		OwnerID:       ownerID,
		TransporterID: transporterID,
		CreatedAt:     time.Now(),
	}
	r.rooms[room.ID] = room
	clone := *room
	return &clone, nil
}

func (r *fakeChatRepo) GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, utils.NewNotFoundError("Chat room")
	}
	clone := *room
	return &clone, nil
}

func (r *fakeChatRepo) ListRooms(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.ChatRoom, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.ChatRoom
	for _, room := range r.rooms {
		clone := *room
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = primitive.NewObjectID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	clone := *message
	r.messages[message.RoomID] = append(r.messages[message.RoomID], &clone)
	return nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, roomID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := r.messages[roomID]
	result := make([]*models.ChatMessage, 0, len(messages))
	for _, message := range messages {
		clone := *message
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := io.ReadAll(request.Reader)
	if err != nil {
		return nil, err
	}
	s.files[request.Key] = data
	return &storage.UploadResponse{Key: request.Key, URL: "http://files.test/" + request.Key, Size: int64(len(data))}, nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) (*storage.DownloadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, utils.NewNotFoundError("File")
	}
	return &storage.DownloadResponse{Reader: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data))}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *fakeStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "http://files.test/" + key, nil
}

func (s *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok, nil
}

type fakeTrackingRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]*models.Tracking
}

func newFakeTrackingRepo() *fakeTrackingRepo {
	return &fakeTrackingRepo{rows: make(map[primitive.ObjectID]*models.Tracking)}
}

func (r *fakeTrackingRepo) Upsert(ctx context.Context, tracking *models.Tracking) (*models.Tracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.PackageID == tracking.PackageID {
			row.Latitude = tracking.Latitude
			row.Longitude = tracking.Longitude
			row.UpdatedAt = time.Now()
			clone := *row
			return &clone, nil
		}
	}
	tracking.ID = primitive.NewObjectID()
	tracking.UpdatedAt = time.Now()
	clone := *tracking
	r.rows[tracking.ID] = &clone
	result := clone
	return &result, nil
}

func (r *fakeTrackingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, utils.NewNotFoundError("Tracking")
	}
	clone := *row
	return &clone, nil
}

func (r *fakeTrackingRepo) GetByPackageID(ctx context.Context, packageID primitive.ObjectID) (*models.Tracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.PackageID == packageID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("Tracking")
}

func (r *fakeTrackingRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Tracking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Tracking
	for _, row := range r.rows {
		clone := *row
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTrackingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return utils.NewNotFoundError("Tracking")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeChatRepo) ListOngoingMessages(ctx context.Context, roomFilter bson.M, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.ChatMessage
	for _, messages := range r.messages {
		for _, message := range messages {
			clone := *message
			result = append(result, &clone)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOfferRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.offers)), nil
}

func (r *fakeInvoiceRepo) SumAmounts(ctx context.Context, filter bson.M) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total, paid float64
	for _, invoice := range r.invoices {
		total += invoice.Amount
		if invoice.Paid {
			paid += invoice.Amount
		}
	}
	return total, paid, nil
}
