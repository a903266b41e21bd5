package compose

import (
	"encoding/json"
	"time"

	"github.com/spf13/afero"
)

// Manifest records what went into a composed image. It is written beside
// the image as compose.json for provenance; nothing reads it back.
type Manifest struct {
	ID         string    `json:"id"`
	Composer   string    `json:"composer"`
	Platform   string    `json:"platform"`
	Arch       string    `json:"arch"`
	CreatedAt  time.Time `json:"created_at"`
	Image      string    `json:"image"`
	ImageSize  int64     `json:"image_size"`
	Kernel     string    `json:"kernel"`
	KernelSize int64     `json:"kernel_size"`
	SupportLib string    `json:"support_lib"`
	Stub       string    `json:"stub"`
	MapFile    string    `json:"map_file"`
}

func (m *Manifest) write(fs afero.Fs, path string) error {
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append(content, '\n'), 0644)
}
