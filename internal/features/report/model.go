package report

import (
	"time"

	"go-reporting/internal/common/models"
	"go-reporting/internal/features/chart"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a saved report definition. The definition is the single
// source of truth for what a run produces; viewer-side overrides are
// applied per run and never written back.
type Report struct {
	ID             primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID       `json:"organization_id" bson:"organization_id"`
	Name           string                   `json:"name" bson:"name"`
	Description    string                   `json:"description,omitempty" bson:"description,omitempty"`
	ObjectType     string                   `json:"object_type" bson:"object_type"`
	SelectedFields []string                 `json:"selected_fields" bson:"selected_fields"`
	Filters        []models.FilterPredicate `json:"filters" bson:"filters"`
	Sorting        []models.SortSpec        `json:"sorting" bson:"sorting"`
	Charts         []chart.ChartSpec        `json:"charts" bson:"charts"`
	FolderID       *primitive.ObjectID      `json:"folder_id,omitempty" bson:"folder_id,omitempty"`
	IsFavorite     bool                     `json:"is_favorite" bson:"is_favorite"`
	IsShared       bool                     `json:"is_shared" bson:"is_shared"`
	CreatedBy      string                   `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time                `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" bson:"updated_at"`
}

// RunOptions are the viewer's per-run adjustments. They shape a single
// run only; the stored definition is left untouched.
type RunOptions struct {
	DateField string        `json:"date_field,omitempty"`
	DateRange *models.Range `json:"date_range,omitempty"`
	SortField string        `json:"sort_field,omitempty"`
	SortDir   string        `json:"sort_dir,omitempty"`
	Page      int64         `json:"page,omitempty"`
	PageSize  int64         `json:"page_size,omitempty"`
}

// RunResult is one page of report output plus the computed charts.
type RunResult struct {
	Columns  []string                 `json:"columns"`
	Rows     []map[string]interface{} `json:"rows"`
	Total    int64                    `json:"total"`
	Page     int64                    `json:"page"`
	PageSize int64                    `json:"page_size"`
	Charts   []chart.Series           `json:"charts"`
}

// ListFilter narrows the report listing.
type ListFilter struct {
	FolderID      string
	FavoritesOnly bool
	SharedOnly    bool
}
