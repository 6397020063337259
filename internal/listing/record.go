package listing

import (
	"time"

	"tvindex/internal/titlescan"
)

// Record is one release row, enriched with the scanned title metadata.
type Record struct {
	ShowTitle     string             `json:"show_title"`
	EpisodeTitle  string             `json:"episode_title"`
	Magnet        string             `json:"magnet_link"`
	Torrent       string             `json:"torrent_link,omitempty"`
	FilesizeText  string             `json:"filesize"`
	FilesizeBytes int64              `json:"filesize_bytes"`
	Seeds         int                `json:"seeds"`
	Added         time.Time          `json:"eztv_added"`
	Meta          titlescan.Metadata `json:"meta"`
	Row           int                `json:"-"`
}

// DownloadURI is the link handed to the downloader: the torrent link when the
// row has one, otherwise the magnet link.
func (r Record) DownloadURI() string {
	if r.Torrent != "" {
		return r.Torrent
	}
	return r.Magnet
}
