package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	catalog "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/crm/entity"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/shared/notify"
	"github.com/drapehq/drapehq/internal/sse"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// QuoteService manages quotes. Line item prices come from the curtain
// calculator; a quote snapshot never changes when templates or rates do.
type QuoteService struct {
	repo        *repository.QuoteRepository
	clientRepo  *repository.ClientRepository
	projectRepo *repository.ProjectRepository

	calc      *catalog.CalcService
	materials *catalog.MaterialService
	settings  *catalog.SettingsService

	notifier *notify.Client
	logger   *zap.Logger
}

func NewQuoteService(
	repo *repository.QuoteRepository,
	clientRepo *repository.ClientRepository,
	projectRepo *repository.ProjectRepository,
	calc *catalog.CalcService,
	materials *catalog.MaterialService,
	settings *catalog.SettingsService,
	notifier *notify.Client,
	logger *zap.Logger,
) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		repo:        repo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		calc:        calc,
		materials:   materials,
		settings:    settings,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateQuoteRequest is the create payload.
type CreateQuoteRequest struct {
	ClientID   string     `json:"client_id" binding:"required"`
	ProjectID  string     `json:"project_id"`
	ValidUntil *time.Time `json:"valid_until"`
	Notes      string     `json:"notes"`
}

// UpdateQuoteRequest is the partial update payload, accepted while the
// quote is a draft.
type UpdateQuoteRequest struct {
	ValidUntil *time.Time `json:"valid_until"`
	TaxPercent *float64   `json:"tax_percent"`
	Notes      *string    `json:"notes"`
}

// LineItemRequest adds one calculated window treatment to a quote.
type LineItemRequest struct {
	Room        string `json:"room"`
	Description string `json:"description"`

	TemplateID  string  `json:"template_id" binding:"required"`
	RailWidthCM float64 `json:"rail_width_cm" binding:"required"`
	DropCM      float64 `json:"drop_cm" binding:"required"`
	Pooling     string  `json:"pooling"`
	Paired      bool    `json:"paired"`

	FabricMaterialID   string `json:"fabric_material_id"`
	HardwareMaterialID string `json:"hardware_material_id"`
	LiningType         string `json:"lining_type"`

	Quantity int `json:"quantity"`
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Quote, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *QuoteService) Get(ctx context.Context, id string) (*entity.Quote, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *QuoteService) Create(ctx context.Context, userID string, req *CreateQuoteRequest) (*entity.Quote, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if req.ProjectID != "" {
		if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
	}

	number, err := s.repo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	costSettings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cost settings: %w", err)
	}

	quote := &entity.Quote{
		ID:          uuid.New().String()[:32],
		QuoteNumber: number,
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Status:      entity.QuoteStatusDraft,
		TaxPercent:  costSettings.TaxPercent,
		Currency:    costSettings.Currency,
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) Update(ctx context.Context, id string, req *UpdateQuoteRequest) (*entity.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quote.Editable() {
		return nil, fmt.Errorf("quote %s is no longer editable", quote.QuoteNumber)
	}

	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	if req.TaxPercent != nil {
		quote.TaxPercent = *req.TaxPercent
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	if err := s.repo.UpdateTotals(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) Delete(ctx context.Context, id string) error {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status != entity.QuoteStatusDraft {
		return fmt.Errorf("only draft quotes can be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// AddLineItem runs the calculator for the requested treatment and stores
// the result as a priced line.
func (s *QuoteService) AddLineItem(ctx context.Context, quoteID string, req *LineItemRequest) (*entity.Quote, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.Editable() {
		return nil, fmt.Errorf("quote %s is no longer editable", quote.QuoteNumber)
	}

	calcResp, err := s.calc.Calculate(ctx, &catalog.CalcRequest{
		TemplateID:         req.TemplateID,
		RailWidthCM:        req.RailWidthCM,
		DropCM:             req.DropCM,
		Pooling:            req.Pooling,
		Paired:             req.Paired,
		FabricMaterialID:   req.FabricMaterialID,
		HardwareMaterialID: req.HardwareMaterialID,
		LiningType:         req.LiningType,
	})
	if err != nil {
		return nil, err
	}

	breakdown, err := toJSONB(calcResp.Result)
	if err != nil {
		return nil, fmt.Errorf("snapshot breakdown: %w", err)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := &entity.QuoteLineItem{
		ID:      uuid.New().String()[:32],
		QuoteID: quote.ID,

		Room:        req.Room,
		Description: req.Description,

		TemplateID:         req.TemplateID,
		FabricMaterialID:   req.FabricMaterialID,
		HardwareMaterialID: req.HardwareMaterialID,
		LiningType:         req.LiningType,

		RailWidthCM: req.RailWidthCM,
		DropCM:      req.DropCM,
		Pooling:     req.Pooling,
		Paired:      req.Paired,

		FabricMetres: calcResp.Result.TotalFabricRequired,
		Breakdown:    breakdown,

		Quantity:  quantity,
		UnitPrice: calcResp.Result.TotalPrice,
		LineTotal: math.Round(calcResp.Result.TotalPrice*float64(quantity)*100) / 100,

		SortOrder: len(quote.LineItems),
	}
	if item.Description == "" {
		item.Description = calcResp.TemplateName
	}

	if err := s.repo.CreateLineItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTotals(ctx, quote); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, quote.ID)
}

// RemoveLineItem deletes a line and reprices the quote.
func (s *QuoteService) RemoveLineItem(ctx context.Context, quoteID, itemID string) (*entity.Quote, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.Editable() {
		return nil, fmt.Errorf("quote %s is no longer editable", quote.QuoteNumber)
	}

	if _, err := s.repo.FindLineItem(ctx, quoteID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLineItem(ctx, quoteID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTotals(ctx, quote); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, quoteID)
}

// UpdateStatus moves the quote through its lifecycle. Acceptance deducts
// fabric stock and advances the linked job.
func (s *QuoteService) UpdateStatus(ctx context.Context, userID, id, status string) (*entity.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !quote.CanTransition(status) {
		return nil, fmt.Errorf("cannot move quote from %s to %s", quote.Status, status)
	}
	if status == entity.QuoteStatusSent && len(quote.LineItems) == 0 {
		return nil, fmt.Errorf("cannot send a quote with no line items")
	}

	now := time.Now()
	quote.Status = status
	switch status {
	case entity.QuoteStatusSent:
		quote.SentAt = &now
	case entity.QuoteStatusAccepted, entity.QuoteStatusDeclined:
		quote.DecidedAt = &now
	}

	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, err
	}

	if status == entity.QuoteStatusAccepted {
		s.deductStock(ctx, userID, quote)
	}
	s.advanceProject(ctx, quote, status)

	sse.PublishQuoteUpdate(quote.ID, status)
	s.publishWebhook(quote, status)

	return quote, nil
}

// deductStock consumes fabric for each line that selected a real item.
// Failures are logged, not fatal: the acceptance already happened.
func (s *QuoteService) deductStock(ctx context.Context, userID string, quote *entity.Quote) {
	for _, item := range quote.LineItems {
		if item.FabricMaterialID == "" || item.FabricMetres <= 0 {
			continue
		}
		metres := item.FabricMetres * float64(item.Quantity)
		if err := s.materials.DeductForQuote(ctx, userID, item.FabricMaterialID, metres, quote.QuoteNumber); err != nil {
			s.logger.Error("stock deduction failed",
				zap.String("quote", quote.QuoteNumber),
				zap.String("material_id", item.FabricMaterialID),
				zap.Error(err))
		}
	}
}

// advanceProject keeps the linked job roughly in step with the quote.
func (s *QuoteService) advanceProject(ctx context.Context, quote *entity.Quote, status string) {
	if quote.ProjectID == "" {
		return
	}
	project, err := s.projectRepo.FindByID(ctx, quote.ProjectID)
	if err != nil {
		return
	}

	var target string
	switch status {
	case entity.QuoteStatusSent:
		target = entity.ProjectStatusQuoted
	case entity.QuoteStatusAccepted:
		target = entity.ProjectStatusApproved
	default:
		return
	}

	if !project.CanTransition(target) {
		return
	}
	project.Status = target
	if err := s.projectRepo.Update(ctx, project); err != nil {
		s.logger.Error("advance job failed",
			zap.String("project_id", project.ID),
			zap.Error(err))
		return
	}
	sse.PublishJobUpdate(project.ID, target)
}

func (s *QuoteService) publishWebhook(quote *entity.Quote, status string) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return
	}
	event := notify.Event{
		Type:       "quote." + status,
		OccurredAt: time.Now(),
		Data: map[string]interface{}{
			"quote_id":     quote.ID,
			"quote_number": quote.QuoteNumber,
			"client_id":    quote.ClientID,
			"total":        quote.Total,
			"currency":     quote.Currency,
		},
	}
	go func() {
		if err := s.notifier.Send(context.Background(), event); err != nil {
			s.logger.Warn("quote webhook failed",
				zap.String("quote", quote.QuoteNumber),
				zap.Error(err))
		}
	}()
}

var quoteExportHeaders = []string{
	"Room", "Description", "Width (cm)", "Drop (cm)", "Pair",
	"Fabric (m)", "Qty", "Unit Price", "Line Total",
}

// Export writes the quote to an xlsx workbook.
func (s *QuoteService) Export(ctx context.Context, id string) (*excelize.File, string, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Quote"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheet, "A1", quote.QuoteNumber)
	if quote.Client != nil {
		f.SetCellValue(sheet, "B1", quote.Client.Name)
	}

	headerRow := 3
	for i, h := range quoteExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for idx, item := range quote.LineItems {
		row := headerRow + 1 + idx
		pair := "No"
		if item.Paired {
			pair = "Yes"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.Room)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Description)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.RailWidthCM)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.DropCM)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), pair)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.FabricMetres)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.UnitPrice)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.LineTotal)
	}

	summaryRow := headerRow + len(quote.LineItems) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), "Subtotal")
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow), quote.Subtotal)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow+1), fmt.Sprintf("Tax (%.1f%%)", quote.TaxPercent))
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow+1), quote.TaxAmount)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow+2), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow+2), quote.Total)
	f.SetCellStyle(sheet, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("I%d", summaryRow+2), summaryStyle)

	colWidths := []float64{14, 30, 10, 10, 6, 10, 6, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("%s.xlsx", quote.QuoteNumber)
	return f, filename, nil
}

func toJSONB(v interface{}) (entity.JSONB, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out entity.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
