package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate assigns a UUID when no id was provided
func (g *Group) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (p *Pet) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (m *Membership) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (r *Report) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (m *ReportMedia) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (c *ReportComment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when no id was provided
func (s *PushSubscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
