package discord

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/internal/request"
	"github.com/vmunix/seekarr/pkg/title"
)

const (
	// maxOptions is Discord's limit on select menu options.
	maxOptions = 25
	// maxLabel is Discord's limit on select option labels.
	maxLabel = 100

	allSeasonsValue = "all"
)

func embed(c notify.Card) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Color:       c.Color,
	}
	if c.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: c.ImageURL}
	}
	if c.ThumbnailURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: c.ThumbnailURL}
	}
	if c.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: c.Footer}
	}
	return e
}

// pickMenu is the select menu listing search results.
func pickMenu(v view) discordgo.ActionsRow {
	var opts []discordgo.SelectMenuOption
	placeholder := "Select a movie"

	add := func(i int, name string, year int) {
		opt := discordgo.SelectMenuOption{
			Label:   title.Truncate(name, maxLabel-5),
			Value:   strconv.Itoa(i),
			Default: i == v.selected,
		}
		if year > 0 {
			opt.Description = strconv.Itoa(year)
		}
		opts = append(opts, opt)
	}

	if v.command.Source == notify.SourceSeries {
		placeholder = "Select a series"
		for i, s := range v.series {
			if i == maxOptions {
				break
			}
			add(i, s.Title, s.Year)
		}
	} else {
		for i, m := range v.movies {
			if i == maxOptions {
				break
			}
			add(i, m.Title, m.Year)
		}
	}

	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    customID(kindPick, v.id),
			Placeholder: placeholder,
			MaxValues:   1,
			Options:     opts,
		},
	}}
}

// seasonMenu is the multi-select of seasons. "All Seasons" is offered when
// there is more than one season to pick.
func seasonMenu(v view) discordgo.ActionsRow {
	var opts []discordgo.SelectMenuOption
	if len(v.options) > 1 {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:   "All Seasons",
			Value:   allSeasonsValue,
			Default: v.allSeasons,
		})
	}
	for _, s := range v.options {
		if len(opts) == maxOptions {
			break
		}
		mark := "❌"
		if s.Monitored {
			mark = "✅"
		}
		opts = append(opts, discordgo.SelectMenuOption{
			Label:   fmt.Sprintf("Season %d", s.Number),
			Value:   strconv.Itoa(s.Number),
			Emoji:   &discordgo.ComponentEmoji{Name: mark},
			Default: !v.allSeasons && slices.Contains(v.seasons, s.Number),
		})
	}

	minValues := 1
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    customID(kindSeasons, v.id),
			Placeholder: "Select a season",
			MinValues:   &minValues,
			MaxValues:   max(1, min(len(v.options), maxOptions)),
			Options:     opts,
		},
	}}
}

func requestButton(v view) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Request",
			Style:    discordgo.PrimaryButton,
			CustomID: customID(kindRequest, v.id),
		},
	}}
}

// statusButton is the disabled button that ends a request flow.
func statusButton(label string, style discordgo.ButtonStyle, v view) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    label,
			Style:    style,
			Disabled: true,
			CustomID: customID(kindRequest, v.id),
		},
	}}
}

// seasonPhrase renders a season list the way it is shown to users:
// "season(s) 1", "season(s) 1 and 3", "season(s) 1, 2, and 4" or
// "all seasons".
func seasonPhrase(seasons []int, all bool) string {
	if all {
		return "all seasons"
	}
	parts := make([]string, len(seasons))
	for i, n := range seasons {
		parts[i] = strconv.Itoa(n)
	}
	if len(parts) > 2 {
		parts[len(parts)-1] = "and " + parts[len(parts)-1]
		return "season(s) " + strings.Join(parts, ", ")
	}
	return "season(s) " + strings.Join(parts, " and ")
}

// mentions renders user mentions separated by spaces.
func mentions(users []string) string {
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = "<@" + u + ">"
	}
	return strings.Join(parts, " ")
}

func seasonNumbers(opts []request.SeasonOption) []int {
	out := make([]int, len(opts))
	for i, o := range opts {
		out[i] = o.Number
	}
	return out
}
