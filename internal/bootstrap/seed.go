package bootstrap

import (
	"log"

	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/auth"
	"suraksha.com/preparedness/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.DisasterModule{},
		&model.ModulePhase{},
		&model.QuizQuestion{},
		&model.StudentProgress{},
		&model.QuizAttempt{},
		&model.EmergencyAlert{},
		&model.SOSRequest{},
		&model.EmergencyContact{},
	)
}

func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@suraksha.edu").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}

	adminUser := model.User{
		Email:        "admin@suraksha.edu",
		PasswordHash: hashed,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@suraksha.edu")
	log.Println("   Password: admin123")

	return nil
}

func SeedEmergencyContacts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.EmergencyContact{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	contacts := []model.EmergencyContact{
		{Name: "Campus Security", Role: "Security Office", Phone: "100", Priority: 1, IsActive: true},
		{Name: "Medical Center", Role: "Campus Clinic", Phone: "102", Priority: 1, IsActive: true},
		{Name: "Fire Department", Role: "Fire & Rescue", Phone: "101", Priority: 2, IsActive: true},
		{Name: "Facilities Desk", Role: "Maintenance", Phone: "+91-11-2659-1000", Priority: 3, IsActive: true},
	}

	for i := range contacts {
		if err := db.Create(&contacts[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

func SeedModules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DisasterModule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	modules := []model.DisasterModule{
		{
			Slug:        "earthquake",
			Title:       "Earthquake Preparedness",
			Description: "Drop, cover and hold on. Learn what to do before, during and after an earthquake.",
			Icon:        "activity",
			Color:       "#d97706",
			IsActive:    true,
		},
		{
			Slug:        "fire",
			Title:       "Fire Safety",
			Description: "Evacuation routes, extinguisher basics and smoke safety on campus.",
			Icon:        "flame",
			Color:       "#dc2626",
			IsActive:    true,
		},
		{
			Slug:        "flood",
			Title:       "Flood Response",
			Description: "Recognize flood warnings and move to higher ground safely.",
			Icon:        "droplets",
			Color:       "#2563eb",
			IsActive:    true,
		},
	}

	for i := range modules {
		if err := db.Create(&modules[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
