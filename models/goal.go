package models

import (
	"math"
	"time"
)

type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Progress      float64    `json:"progress"`
	Deadline      *time.Time `json:"deadline"`
	Icon          *string    `json:"icon"`
	Color         string     `json:"color"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ComputeProgress fills the derived progress percentage, clamped to 100.
// Progress is never persisted; it is recomputed on every read.
func (g *Goal) ComputeProgress() {
	if g.TargetAmount <= 0 {
		g.Progress = 0
		return
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		p = 100
	}
	g.Progress = math.Round(p*100) / 100
}

type CreateGoalRequest struct {
	Name          string     `json:"name" binding:"required,min=2,max=100"`
	TargetAmount  float64    `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64    `json:"current_amount" binding:"omitempty,gte=0"`
	Deadline      *time.Time `json:"deadline"`
	Icon          *string    `json:"icon"`
	Color         string     `json:"color" binding:"omitempty,len=7,hexcolor"`
}

type UpdateGoalRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=2,max=100"`
	TargetAmount  *float64   `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *float64   `json:"current_amount" binding:"omitempty,gte=0"`
	Deadline      *time.Time `json:"deadline"`
	Icon          *string    `json:"icon"`
	Color         *string    `json:"color" binding:"omitempty,len=7,hexcolor"`
}
