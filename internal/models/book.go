package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Book represents an uploaded book record. FilePath and ImagePath hold the
// generated stored file names, never full paths; the binary content lives in
// the uploads directory and is related by name only.
type Book struct {
	ID        string         `db:"id" json:"id"`
	Titulo    string         `db:"titulo" json:"titulo"`
	Area      string         `db:"area" json:"area"`
	FilePath  string         `db:"file_path" json:"filePath"`
	ImagePath sql.NullString `db:"image_path" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// bookJSON mirrors Book with a plain optional imagePath.
type bookJSON struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Area      string    `json:"area"`
	FilePath  string    `json:"filePath"`
	ImagePath string    `json:"imagePath,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON flattens the nullable image path so clients see a plain string
// field that is simply absent when no cover image was uploaded.
func (b Book) MarshalJSON() ([]byte, error) {
	out := bookJSON{
		ID:        b.ID,
		Titulo:    b.Titulo,
		Area:      b.Area,
		FilePath:  b.FilePath,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.ImagePath.Valid {
		out.ImagePath = b.ImagePath.String
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the nullable image path; cached listings round-trip
// through JSON and must not drop it.
func (b *Book) UnmarshalJSON(data []byte) error {
	var in bookJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.ID = in.ID
	b.Titulo = in.Titulo
	b.Area = in.Area
	b.FilePath = in.FilePath
	b.ImagePath = sql.NullString{String: in.ImagePath, Valid: in.ImagePath != ""}
	b.CreatedAt = in.CreatedAt
	b.UpdatedAt = in.UpdatedAt
	return nil
}
