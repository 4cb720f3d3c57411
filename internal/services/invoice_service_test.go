package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"cargolink/internal/models"
	"cargolink/internal/utils"
	"cargolink/pkg/mailer"
	"cargolink/pkg/pdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeMailer struct {
	mu   sync.Mutex
	fail error
	sent []*mailer.Message
}

func (m *fakeMailer) Send(msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

type invoiceFixture struct {
	svc         InvoiceService
	invoiceRepo *fakeInvoiceRepo
	packageRepo *fakePackageRepo
	userRepo    *fakeUserRepo
	mail        *fakeMailer
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	invoiceRepo := newFakeInvoiceRepo()
	packageRepo := newFakePackageRepo()
	userRepo := newFakeUserRepo()
	mail := &fakeMailer{}
	svc := NewInvoiceService(invoiceRepo, packageRepo, userRepo, pdf.NewRenderer(), mail, testLogger())
	return &invoiceFixture{svc: svc, invoiceRepo: invoiceRepo, packageRepo: packageRepo, userRepo: userRepo, mail: mail}
}

func (f *invoiceFixture) seedUser(t *testing.T, username, email string) primitive.ObjectID {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        email,
		Capabilities: models.NewCapabilities(true, true),
		IsActive:     true,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user.ID
}

func (f *invoiceFixture) seedBookedPackage(t *testing.T, ownerID, transporterID primitive.ObjectID, price float64) *models.Package {
	t.Helper()
	pkg := seedPackage(t, f.packageRepo, ownerID, price)
	matched, err := f.packageRepo.FinalizeBooking(context.Background(), pkg.ID, transporterID, price)
	require.NoError(t, err)
	require.True(t, matched)
	booked, err := f.packageRepo.GetByID(context.Background(), pkg.ID)
	require.NoError(t, err)
	return booked
}

func TestGenerateInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	invoice, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-[0-9A-F]{8}$`), invoice.InvoiceNumber)
	assert.Equal(t, 1200.0, invoice.Amount)
	assert.Equal(t, owner, invoice.OwnerID)
	assert.Equal(t, transporter, invoice.TransporterID)
	assert.False(t, invoice.Paid)

	// The PDF goes to the billed transporter with the owner on reply-to.
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"vikram@example.com"}, f.mail.sent[0].To)
	assert.Equal(t, "asha@example.com", f.mail.sent[0].ReplyTo)
	require.Len(t, f.mail.sent[0].Attachments, 1)
	assert.Equal(t, invoice.InvoiceNumber+".pdf", f.mail.sent[0].Attachments[0].Filename)
}

func TestGenerateInvoiceRequiresBookedPackage(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	pkg := seedPackage(t, f.packageRepo, owner, 1200)

	_, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	assert.Equal(t, utils.ErrorKindValidation, utils.KindOf(err))
}

func TestGenerateInvoiceOwnerOnly(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	_, err := f.svc.Generate(context.Background(), transporterViewer(transporter), pkg.ID)
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))
}

func TestGenerateSecondInvoiceFails(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	_, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)

	_, err = f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.Error(t, err)
	assert.Equal(t, utils.ErrorKindValidation, utils.KindOf(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestGenerateFailsWhenMailDeliveryFails(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	f.mail.fail = errors.New("smtp: connection refused")

	_, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.Error(t, err)
	assert.Equal(t, utils.ErrorKindInternal, utils.KindOf(err))

	// The invoice row itself is committed before mail goes out.
	invoice, err := f.invoiceRepo.GetByPackageID(context.Background(), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, invoice.Amount)
}

// Two generate calls racing past the existence check must not both insert;
// the unique package index catches the loser.
func TestGenerateLosingDuplicateRaceFailsValidation(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	_, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)

	f.invoiceRepo.staleExists = true

	_, err = f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.Error(t, err)
	assert.Equal(t, utils.ErrorKindValidation, utils.KindOf(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestMarkPaid(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	invoice, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)

	// The billed transporter cannot settle its own invoice.
	_, err = f.svc.MarkPaid(context.Background(), transporterViewer(transporter), invoice.ID)
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))

	paid, err := f.svc.MarkPaid(context.Background(), ownerViewer(owner), invoice.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)

	// Marking twice is a no-op.
	again, err := f.svc.MarkPaid(context.Background(), ownerViewer(owner), invoice.ID)
	require.NoError(t, err)
	assert.True(t, again.Paid)
}

func TestTransporterCanReadOwnInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	invoice, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), transporterViewer(transporter), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, got.ID)

	_, err = f.svc.Get(context.Background(), transporterViewer(primitive.NewObjectID()), invoice.ID)
	assert.Equal(t, utils.ErrorKindNotFound, utils.KindOf(err))
}

func TestDownloadPDF(t *testing.T) {
	f := newInvoiceFixture(t)
	owner := f.seedUser(t, "asha", "asha@example.com")
	transporter := f.seedUser(t, "vikram", "vikram@example.com")
	pkg := f.seedBookedPackage(t, owner, transporter, 1200)

	invoice, err := f.svc.Generate(context.Background(), ownerViewer(owner), pkg.ID)
	require.NoError(t, err)

	data, filename, err := f.svc.DownloadPDF(context.Background(), ownerViewer(owner), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceNumber+".pdf", filename)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
