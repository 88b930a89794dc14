package main

import (
	"context"
	"fmt"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/config"
	"go-reporting/internal/database"
	"go-reporting/internal/features/audit"
	"go-reporting/internal/features/chart"
	"go-reporting/internal/features/customfield"
	"go-reporting/internal/features/folder"
	"go-reporting/internal/features/object"
	"go-reporting/internal/features/record"
	"go-reporting/internal/features/report"
	"go-reporting/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Fixed org id keeps seeded data addressable across dev runs.
const devOrgHex = "678e9a1b2c3d4e5f6a7b8c9e"

var dealRows = []map[string]interface{}{
	{"name": "Acme Renewal", "stage": "Open", "amount": 12000.0, "close_date": "2026-09-15"},
	{"name": "Globex Expansion", "stage": "Open", "amount": 45000.0, "close_date": "2026-10-01"},
	{"name": "Initech Pilot", "stage": "Closed", "amount": 8000.0, "close_date": "2026-07-20"},
	{"name": "Umbrella Upsell", "stage": "Open", "amount": 23000.0, "close_date": "2026-11-05"},
	{"name": "Stark Migration", "stage": "Lost", "amount": 61000.0, "close_date": "2026-08-12"},
}

func Seed(
	lc fx.Lifecycle,
	objectService object.ObjectService,
	fieldService customfield.CustomFieldService,
	recordService record.RecordService,
	reportService report.ReportService,
	folderService folder.FolderService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				orgID, _ := primitive.ObjectIDFromHex(devOrgHex)
				logger.Info("Seeding demo reporting data", zap.String("organization", devOrgHex))

				if err := seed(ctx, orgID, objectService, fieldService, recordService, reportService, folderService); err != nil {
					logger.Error("Seeding failed", zap.Error(err))
					return
				}
				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seed(
	ctx context.Context,
	orgID primitive.ObjectID,
	objectService object.ObjectService,
	fieldService customfield.CustomFieldService,
	recordService record.RecordService,
	reportService report.ReportService,
	folderService folder.FolderService,
) error {
	if _, err := objectService.GetObjectByName(ctx, orgID, "deals"); err == nil {
		// Already seeded.
		return nil
	}

	deals := &object.ObjectDef{
		Name:   "deals",
		Label:  "Deals",
		Source: object.SourceInternal,
		Fields: []common_models.FieldDef{
			{Name: "name", Label: "Name", Type: common_models.FieldTypeText},
			{Name: "stage", Label: "Stage", Type: common_models.FieldTypeSelect, Options: []common_models.SelectOption{
				{Value: "Open", Label: "Open"},
				{Value: "Closed", Label: "Closed"},
				{Value: "Lost", Label: "Lost"},
			}},
			{Name: "amount", Label: "Amount", Type: common_models.FieldTypeNumber},
			{Name: "close_date", Label: "Close Date", Type: common_models.FieldTypeDate},
		},
	}
	if err := objectService.CreateObject(ctx, orgID, deals); err != nil {
		return fmt.Errorf("create deals object: %w", err)
	}

	customFields := []*customfield.CustomField{
		{
			ObjectType: "deals",
			Name:       "region__c",
			Label:      "Region",
			Type:       common_models.FieldTypeSelect,
			Options: []common_models.SelectOption{
				{Value: "EMEA", Label: "EMEA"},
				{Value: "AMER", Label: "AMER"},
				{Value: "APAC", Label: "APAC"},
			},
		},
		{
			ObjectType: "deals",
			Name:       "commission__c",
			Label:      "Commission",
			Type:       common_models.FieldTypeFormula,
			Expression: `row.amount * 0.05`,
		},
	}
	for _, cf := range customFields {
		if err := fieldService.CreateField(ctx, orgID, cf); err != nil {
			return fmt.Errorf("create custom field %s: %w", cf.Name, err)
		}
	}

	regions := []string{"EMEA", "AMER", "APAC", "EMEA", "AMER"}
	for i, row := range dealRows {
		row["region__c"] = regions[i]
		if _, err := recordService.CreateRecord(ctx, orgID, "deals", row); err != nil {
			return fmt.Errorf("create deal record: %w", err)
		}
	}

	salesFolder := &folder.Folder{Name: "Sales", Description: "Pipeline reporting"}
	if err := folderService.CreateFolder(ctx, orgID, salesFolder); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	pipeline := &report.Report{
		Name:           "Open Pipeline",
		Description:    "Open deals by stage and region",
		ObjectType:     "deals",
		SelectedFields: []string{"name", "stage", "amount", "region__c", "commission__c"},
		Filters: []common_models.FilterPredicate{
			{Field: "stage", Operator: "eq", Value: "Open"},
		},
		Sorting: []common_models.SortSpec{{Field: "amount", Direction: "desc"}},
		Charts: []chart.ChartSpec{
			{Type: chart.TypeBar, Title: "Deals by Stage", XField: "stage", Aggregation: chart.AggCount},
			{Type: chart.TypePie, Title: "Amount by Region", XField: "region__c", YField: "amount", Aggregation: chart.AggSum},
		},
		FolderID: &salesFolder.ID,
	}
	if err := reportService.CreateReport(ctx, orgID, pipeline); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			audit.NewAuditRepository,
			object.NewObjectRepository,
			customfield.NewCustomFieldRepository,
			record.NewRecordRepository,
			report.NewReportRepository,
			folder.NewFolderRepository,

			audit.NewAuditService,
			object.NewObjectService,
			customfield.NewCustomFieldService,
			record.NewRecordService,
			report.NewReportService,
			folder.NewFolderService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
