package request

import (
	"fmt"

	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/pkg/arr"
	"github.com/vmunix/seekarr/pkg/title"
)

const (
	cardColor      = 0x3498db
	cardFooter     = "Powered by Seekarr"
	overviewLength = 255

	tmdbLogo = "https://i.imgur.com/44ueTES.png"
	tvdbLogo = "https://thetvdb.com/images/logo.png"
)

// MovieDisplay builds the snapshot shown for a movie and reused in its
// completion message.
func MovieDisplay(m arr.Movie) notify.Display {
	return notify.Display{
		Title: m.Title,
		Year:  m.Year,
		Card: notify.Card{
			Title:        m.Title,
			URL:          fmt.Sprintf("https://www.themoviedb.org/movie/%d", m.TMDBID),
			Description:  title.Truncate(m.Overview, overviewLength),
			ImageURL:     m.Poster(),
			ThumbnailURL: tmdbLogo,
			Footer:       cardFooter,
			Color:        cardColor,
		},
	}
}

// SeriesDisplay builds the snapshot for a series.
func SeriesDisplay(s arr.Series) notify.Display {
	heading := s.Title
	if s.Year > 0 {
		heading = fmt.Sprintf("%s (%d)", s.Title, s.Year)
	}
	return notify.Display{
		Title: s.Title,
		Year:  s.Year,
		Card: notify.Card{
			Title:        heading,
			URL:          fmt.Sprintf("https://thetvdb.com/?tab=series&id=%d", s.TVDBID),
			Description:  title.Truncate(s.Overview, overviewLength),
			ImageURL:     s.Poster(),
			ThumbnailURL: tvdbLogo,
			Footer:       cardFooter,
			Color:        cardColor,
		},
	}
}
