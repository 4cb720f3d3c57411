package services

import (
	"context"
	"fmt"
	"time"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"
	"cargolink/pkg/mailer"
	"cargolink/pkg/pdf"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceService interface {
	Generate(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID) (*models.Invoice, error)
	Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Invoice, error)
	List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Invoice, int64, error)
	MarkPaid(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Invoice, error)
	DownloadPDF(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) ([]byte, string, error)
}

type invoiceService struct {
	invoiceRepo interfaces.InvoiceRepository
	packageRepo interfaces.PackageRepository
	userRepo    interfaces.UserRepository
	renderer    *pdf.Renderer
	mail        mailer.Mailer
	logger      *logger.Logger
}

func NewInvoiceService(
	invoiceRepo interfaces.InvoiceRepository,
	packageRepo interfaces.PackageRepository,
	userRepo interfaces.UserRepository,
	renderer *pdf.Renderer,
	mail mailer.Mailer,
	logger *logger.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		packageRepo: packageRepo,
		userRepo:    userRepo,
		renderer:    renderer,
		mail:        mail,
		logger:      logger,
	}
}

// Generate issues the invoice for a booked package at the agreed price and
// mails the PDF to the billed transporter. At most one invoice per package;
// a second attempt fails validation.
func (s *invoiceService) Generate(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID) (*models.Invoice, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.UserID != viewer.ID && !viewer.IsAdmin {
		return nil, utils.NewPermissionError("only the package owner can issue the invoice")
	}
	if !pkg.Booked() || pkg.BookedBy == nil {
		return nil, utils.NewValidationError("package has not been booked yet")
	}

	exists, err := s.invoiceRepo.ExistsForPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewValidationError("Invoice already exists for this package")
	}

	invoice := &models.Invoice{
		PackageID:     packageID,
		OwnerID:       pkg.UserID,
		TransporterID: *pkg.BookedBy,
		InvoiceNumber: utils.GenerateInvoiceNumber(),
		Amount:        pkg.PriceExpectation,
		IssuedAt:      time.Now(),
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.WithPackageID(packageID).
		WithField("invoice_number", invoice.InvoiceNumber).
		Info("Invoice issued")

	// The invoice row stays committed; the request still fails so the
	// caller knows the transporter was never notified.
	if err := s.emailInvoice(ctx, invoice, pkg); err != nil {
		s.logger.WithError(err).
			WithField("invoice_number", invoice.InvoiceNumber).
			Error("Failed to email invoice")
		return nil, utils.NewInternalError(fmt.Errorf("invoice %s issued but mail delivery failed: %w", invoice.InvoiceNumber, err))
	}

	return invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessInvoice(viewer, invoice) {
		return nil, utils.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, authz.ScopeInvoices(viewer), params)
}

func (s *invoiceService) MarkPaid(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMarkInvoicePaid(viewer, invoice) {
		return nil, utils.NewPermissionError("only the issuing owner can mark an invoice paid")
	}
	if invoice.Paid {
		return invoice, nil
	}

	if err := s.invoiceRepo.Update(ctx, id, map[string]interface{}{"paid": true}); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) DownloadPDF(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) ([]byte, string, error) {
	invoice, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, "", err
	}

	pkg, err := s.packageRepo.GetByID(ctx, invoice.PackageID)
	if err != nil {
		return nil, "", err
	}

	document, err := s.buildDocument(ctx, invoice, pkg)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.Render(document)
	if err != nil {
		return nil, "", utils.NewInternalError(err)
	}
	return data, fmt.Sprintf("%s.pdf", invoice.InvoiceNumber), nil
}

func (s *invoiceService) buildDocument(ctx context.Context, invoice *models.Invoice, pkg *models.Package) (*pdf.InvoiceDocument, error) {
	owner, err := s.userRepo.GetByID(ctx, invoice.OwnerID)
	if err != nil {
		return nil, err
	}
	transporter, err := s.userRepo.GetByID(ctx, invoice.TransporterID)
	if err != nil {
		return nil, err
	}

	return &pdf.InvoiceDocument{
		InvoiceNumber:  invoice.InvoiceNumber,
		IssuedAt:       invoice.IssuedAt,
		Paid:           invoice.Paid,
		Amount:         invoice.Amount,
		OwnerName:      owner.Username,
		OwnerCompany:   owner.CompanyName,
		OwnerEmail:     owner.Email,
		OwnerPhone:     owner.PhoneNo,
		BillToName:     transporter.Username,
		BillToEmail:    transporter.Email,
		BillToPhone:    transporter.PhoneNo,
		PackageTitle:   pkg.Title,
		PickupLocation: pkg.PickupLocation,
		DropLocation:   pkg.DropLocation,
		WeightKG:       pkg.Weight,
	}, nil
}

func (s *invoiceService) emailInvoice(ctx context.Context, invoice *models.Invoice, pkg *models.Package) error {
	if s.mail == nil {
		return nil
	}

	document, err := s.buildDocument(ctx, invoice, pkg)
	if err != nil {
		return err
	}
	data, err := s.renderer.Render(document)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Invoice %s for package %q is attached.\n\nAmount due: %.2f\n\nReply to this email to reach the package owner.",
		invoice.InvoiceNumber, pkg.Title, invoice.Amount,
	)

	return s.mail.Send(&mailer.Message{
		To:      []string{document.BillToEmail},
		ReplyTo: document.OwnerEmail,
		Subject: fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, document.OwnerName),
		Body:    body,
		Attachments: []mailer.Attachment{{
			Filename:    fmt.Sprintf("%s.pdf", invoice.InvoiceNumber),
			ContentType: "application/pdf",
			Data:        data,
		}},
	})
}
