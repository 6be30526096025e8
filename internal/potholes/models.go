package potholes

import (
	"time"

	"github.com/google/uuid"
)

// RoadPosition says where in the carriageway the defect sits.
type RoadPosition string

const (
	PositionCenter     RoadPosition = "center"
	PositionEdge       RoadPosition = "edge"
	PositionLaneChange RoadPosition = "lane_change"
)

func (p RoadPosition) Valid() bool {
	switch p {
	case PositionCenter, PositionEdge, PositionLaneChange:
		return true
	}
	return false
}

// Pothole is one reported road defect. Repeated reports of the same location
// land on the same row: DedupKey is the normalized description and carries a
// unique index, ReportsCount counts the submissions. Coordinates and road
// position are set at creation and never recomputed.
type Pothole struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Lat          float64      `json:"lat"`
	Lng          float64      `json:"lng"`
	LocationDesc string       `gorm:"column:location_desc" json:"location_desc"`
	DedupKey     string       `gorm:"column:dedup_key;uniqueIndex" json:"-"`
	RoadPosition RoadPosition `gorm:"column:road_position" json:"road_position"`
	ReportsCount int          `gorm:"column:reports_count;not null;default:1" json:"reports_count"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (Pothole) TableName() string {
	return "potholes"
}
