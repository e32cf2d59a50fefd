package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChartType enumerates the chart kinds the dashboard can render.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartDonut     ChartType = "donut"
	ChartScatter   ChartType = "scatter"
	ChartArea      ChartType = "area"
	Chart3DColumn  ChartType = "3d column"
	Chart3DDonut   ChartType = "3d donut"
	Chart3DScatter ChartType = "3d scatter"
)

// ChartTypes lists every supported chart type in display order.
var ChartTypes = []ChartType{
	ChartBar, ChartLine, ChartPie, ChartDonut, ChartScatter, ChartArea,
	Chart3DColumn, Chart3DDonut, Chart3DScatter,
}

// ParseChartType normalises s ("3D-Column", "3d_column", " Bar ") and checks it against ChartTypes.
func ParseChartType(s string) (ChartType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	norm = strings.Join(strings.Fields(norm), " ")
	for _, t := range ChartTypes {
		if ChartType(norm) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported chart type %q", s)
}

// Chart is a saved chart configuration with its embedded data.
type Chart struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Type      ChartType `gorm:"size:32;index;not null" json:"type"`
	Data      Document  `json:"data"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns an id and creation time when not provided.
func (c *Chart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return nil
}

// ChartWithOwner is a chart joined with its owner's identity.
type ChartWithOwner struct {
	Chart
	Owner *Owner `json:"owner"`
}

// ChartTypeCount is one entry of a per-user type summary.
type ChartTypeCount struct {
	Type  ChartType `json:"type"`
	Count int64     `json:"count"`
}
