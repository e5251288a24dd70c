package models

import "gorm.io/gorm"

// Content hierarchy: paths contain modules, modules contain activities.
// These rows are owned by content authoring; the progress subsystem only
// reads them.

type LearningPath struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Category string
	Active   bool `gorm:"default:true"`
	Modules  []LearningModule `gorm:"foreignKey:PathID"`
}

type LearningModule struct {
	gorm.Model
	PathID        uint `gorm:"index;not null"`
	Title         string
	SequenceOrder int
	Activities    []Activity `gorm:"foreignKey:ModuleID"`
}

type Activity struct {
	gorm.Model
	ModuleID      uint `gorm:"index;not null"`
	Title         string
	SequenceOrder int
	Kind          string // exercise, quiz, tool, reading
}
