package model

// CurriculumRow one raw curriculum row, table curriculum_rows.
// Cells are stored as text exactly as read from the source file; all
// interpretation happens when the program is built.
type CurriculumRow struct {
	RowID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"row_id"`
	Position  int    `gorm:"not null;uniqueIndex"                           json:"position"`
	Kurs      string `gorm:"type:text;not null;default:''"                  json:"kurs"`
	Semester  string `gorm:"type:text;not null;default:''"                  json:"semester"`
	Note      string `gorm:"type:text;not null;default:''"                  json:"note"`
	Enddatum  string `gorm:"type:text;not null;default:''"                  json:"enddatum"`
	Bestanden string `gorm:"type:text;not null;default:''"                  json:"bestanden"`
	BaseModel
}

// TableName table name
func (CurriculumRow) TableName() string { return "curriculum_rows" }
