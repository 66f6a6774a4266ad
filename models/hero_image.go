package models

type HeroImage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SiteConfigID uint   `gorm:"index" json:"site_config_id"`
	URL          string `gorm:"size:500" json:"url"`
}
