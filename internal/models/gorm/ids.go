package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned client-side so the same models work against Postgres in
// production and the in-memory SQLite used by tests.

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error            { ensureID(&u.ID); return nil }
func (t *AuthToken) BeforeCreate(tx *gorm.DB) error       { ensureID(&t.ID); return nil }
func (c *Charity) BeforeCreate(tx *gorm.DB) error         { ensureID(&c.ID); return nil }
func (e *Employee) BeforeCreate(tx *gorm.DB) error        { ensureID(&e.ID); return nil }
func (m *Membership) BeforeCreate(tx *gorm.DB) error      { ensureID(&m.ID); return nil }
func (r *Role) BeforeCreate(tx *gorm.DB) error            { ensureID(&r.ID); return nil }
func (mr *MembershipRole) BeforeCreate(tx *gorm.DB) error { ensureID(&mr.ID); return nil }
func (f *Fundraise) BeforeCreate(tx *gorm.DB) error       { ensureID(&f.ID); return nil }
func (s *FundraiseStatus) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (h *FundraiseStatusHistory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
func (b *Balance) BeforeCreate(tx *gorm.DB) error  { ensureID(&b.ID); return nil }
func (r *Refill) BeforeCreate(tx *gorm.DB) error   { ensureID(&r.ID); return nil }
func (d *Donation) BeforeCreate(tx *gorm.DB) error { ensureID(&d.ID); return nil }
