package discord

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/internal/request"
)

const (
	msgExpired  = "This search has expired. Please run the command again."
	msgSelect   = "Select an item"
	msgNotFound = "No item found with the name \"%s\". Please make sure you spelled it correctly."
)

func (b *Bot) onInteraction(i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(b.baseContext(), interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, i.Interaction)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i.Interaction)
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case "ping":
		ms := b.sess.HeartbeatLatency().Milliseconds()
		b.reply(i, fmt.Sprintf(":ping_pong: Pong! %dms", ms))
		return
	case "version":
		b.reply(i, "Seekarr v"+b.version)
		return
	}

	cmd, ok := b.commands[data.Name]
	if !ok {
		b.logger.Warn("unknown command", "name", data.Name)
		return
	}

	var term string
	for _, opt := range data.Options {
		switch opt.Name {
		case "title":
			term = opt.StringValue()
		case "quality-profile":
			if v := opt.StringValue(); v != "" {
				cmd.Profile.QualityProfile = v
			}
		case "root-folder":
			if v := opt.StringValue(); v != "" {
				cmd.Profile.RootFolder = v
			}
		}
	}

	if err := b.sess.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.logger.Error("failed to acknowledge command", "command", cmd.Name, "error", err)
		return
	}

	v := view{command: cmd, selected: -1}
	var (
		found int
		err   error
	)
	if cmd.Source == notify.SourceSeries {
		v.series, err = b.catalog.SearchSeries(ctx, term)
		found = len(v.series)
	} else {
		v.movies, err = b.catalog.SearchMovies(ctx, term)
		found = len(v.movies)
	}
	if err != nil {
		b.logger.Error("search failed", "command", cmd.Name, "term", term, "error", err)
		b.edit(i, &discordgo.WebhookEdit{Content: ptr(fmt.Sprintf("Search for \"%s\" failed. Please try again later.", term))})
		return
	}
	if found == 0 {
		b.edit(i, &discordgo.WebhookEdit{Content: ptr(fmt.Sprintf(msgNotFound, term))})
		return
	}

	v = b.views.put(v)
	b.logger.Debug("search results", "command", cmd.Name, "term", term, "results", found, "view", v.id)
	b.edit(i, &discordgo.WebhookEdit{
		Content:    ptr(msgSelect),
		Components: &[]discordgo.MessageComponent{pickMenu(v)},
	})
}

func (b *Bot) handleComponent(ctx context.Context, i *discordgo.Interaction) {
	data := i.MessageComponentData()
	kind, viewID, err := parseCustomID(data.CustomID)
	if err != nil {
		b.logger.Warn("ignoring component", "error", err)
		return
	}

	v, err := b.views.get(viewID)
	if errors.Is(err, ErrSessionExpired) {
		b.replyEphemeral(i, msgExpired)
		return
	}

	if err := b.sess.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.logger.Error("failed to acknowledge component", "custom_id", data.CustomID, "error", err)
		return
	}

	w := notify.Watcher{ChannelID: i.ChannelID, UserID: interactionUser(i)}

	switch kind {
	case kindPick:
		idx, err := strconv.Atoi(firstValue(data.Values))
		if err != nil || idx < 0 || (idx >= len(v.movies) && idx >= len(v.series)) {
			b.logger.Warn("invalid selection", "values", data.Values)
			return
		}
		v.selected = idx
		v.options, v.seasons, v.allSeasons = nil, nil, false
		if v.command.Source == notify.SourceSeries {
			b.pickSeries(ctx, i, v)
		} else {
			b.pickMovie(ctx, i, v, w)
		}
	case kindSeasons:
		b.pickSeasons(i, v, data.Values)
	case kindRequest:
		if v.command.Source == notify.SourceSeries {
			b.confirmSeries(ctx, i, v, w)
		} else {
			b.confirmMovie(ctx, i, v, w)
		}
	}
}

func (b *Bot) pickMovie(ctx context.Context, i *discordgo.Interaction, v view, w notify.Watcher) {
	movie, _ := v.movie()
	if err := b.views.save(v); err != nil {
		b.replyEphemeral(i, msgExpired)
		return
	}

	out, err := b.resolver.SelectMovie(ctx, movie, w)
	name := "**" + movie.Title + "**"

	var content string
	rows := []discordgo.MessageComponent{pickMenu(v)}
	switch {
	case err != nil:
		b.logger.Error("movie lookup failed", "title", movie.Title, "tmdb_id", movie.TMDBID, "error", err)
		content = fmt.Sprintf("Could not check %s. Please try again later.", name)
		rows = append(rows, statusButton("Failed", discordgo.DangerButton, v))
	case out.State == request.StateAvailable:
		content = name + " has already been downloaded. Enjoy!"
		rows = append(rows, statusButton("Available", discordgo.PrimaryButton, v))
	case out.State == request.StateAlreadyRequested:
		content = name + " is already requested. You will be notified when it is available."
		rows = append(rows, statusButton("Requested", discordgo.PrimaryButton, v))
	case out.State == request.StateResumed:
		content = name + " was already requested. Please wait for it to be available"
		rows = append(rows, statusButton("Requested", discordgo.PrimaryButton, v))
	default:
		content = name + " is not downloaded or requested. Would you like to request it?"
		rows = append(rows, requestButton(v))
	}

	b.edit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed(out.Display.Card)},
		Components: &rows,
	})
}

func (b *Bot) pickSeries(ctx context.Context, i *discordgo.Interaction, v view) {
	series, _ := v.show()
	display := request.SeriesDisplay(series)

	options, err := b.resolver.SelectSeries(ctx, series)
	if err != nil {
		b.logger.Error("series lookup failed", "title", series.Title, "tvdb_id", series.TVDBID, "error", err)
		rows := []discordgo.MessageComponent{pickMenu(v), statusButton("Failed", discordgo.DangerButton, v)}
		b.edit(i, &discordgo.WebhookEdit{
			Content:    ptr(fmt.Sprintf("Could not check **%s**. Please try again later.", series.Title)),
			Embeds:     &[]*discordgo.MessageEmbed{embed(display.Card)},
			Components: &rows,
		})
		return
	}
	v.options = options
	if err := b.views.save(v); err != nil {
		b.replyEphemeral(i, msgExpired)
		return
	}

	rows := []discordgo.MessageComponent{pickMenu(v)}
	content := fmt.Sprintf("**%s** has no seasons to request.", series.Title)
	if len(options) > 0 {
		content = fmt.Sprintf("Which seasons of **%s** would you like to request?", series.Title)
		rows = append(rows, seasonMenu(v))
	}
	b.edit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed(display.Card)},
		Components: &rows,
	})
}

func (b *Bot) pickSeasons(i *discordgo.Interaction, v view, values []string) {
	series, ok := v.show()
	if !ok {
		return
	}

	v.seasons, v.allSeasons = nil, false
	for _, val := range values {
		if val == allSeasonsValue {
			v.allSeasons = true
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			b.logger.Warn("invalid season value", "value", val)
			continue
		}
		v.seasons = append(v.seasons, n)
	}
	if v.allSeasons {
		v.seasons = seasonNumbers(v.options)
	}
	slices.Sort(v.seasons)
	v.seasons = slices.Compact(v.seasons)

	if err := b.views.save(v); err != nil {
		b.replyEphemeral(i, msgExpired)
		return
	}

	rows := []discordgo.MessageComponent{pickMenu(v), seasonMenu(v), requestButton(v)}
	b.edit(i, &discordgo.WebhookEdit{
		Content:    ptr(fmt.Sprintf("Would you like to request %s from %s?", seasonPhrase(v.seasons, v.allSeasons), series.Title)),
		Components: &rows,
	})
}

func (b *Bot) confirmMovie(ctx context.Context, i *discordgo.Interaction, v view, w notify.Watcher) {
	movie, ok := v.movie()
	if !ok {
		return
	}

	out, err := b.resolver.ConfirmMovie(ctx, movie, w, v.command.Profile)
	name := "**" + movie.Title + "**"

	var content string
	rows := []discordgo.MessageComponent{pickMenu(v)}
	switch {
	case err != nil:
		b.logger.Error("movie request failed", "title", movie.Title, "tmdb_id", movie.TMDBID, "error", err)
		content = fmt.Sprintf("Failed to request %s. Please try again later.", name)
		rows = append(rows, statusButton("Failed", discordgo.DangerButton, v))
	case out.State == request.StateAlreadyRequested:
		content = name + " is already requested. You will be notified when it is available."
		rows = append(rows, statusButton("Requested", discordgo.PrimaryButton, v))
	default:
		content = "Successfully requested " + name + "!"
		rows = append(rows, statusButton("Requested", discordgo.PrimaryButton, v))
	}

	b.edit(i, &discordgo.WebhookEdit{Content: &content, Components: &rows})
}

func (b *Bot) confirmSeries(ctx context.Context, i *discordgo.Interaction, v view, w notify.Watcher) {
	series, ok := v.show()
	if !ok || len(v.seasons) == 0 {
		return
	}

	out, err := b.resolver.ConfirmSeasons(ctx, series, v.seasons, w, v.command.Profile)
	phrase := seasonPhrase(v.seasons, v.allSeasons)

	var content string
	rows := []discordgo.MessageComponent{pickMenu(v), seasonMenu(v)}
	switch {
	case err != nil:
		b.logger.Error("series request failed", "title", series.Title, "tvdb_id", series.TVDBID, "seasons", v.seasons, "error", err)
		content = fmt.Sprintf("Failed to request %s from %s. Please try again later.", phrase, series.Title)
		rows = append(rows, statusButton("Failed", discordgo.DangerButton, v))
	case out.State == request.StateAvailable:
		content = fmt.Sprintf("%s of %s has already been downloaded. Enjoy!", phrase, series.Title)
		rows = append(rows, statusButton("Available", discordgo.PrimaryButton, v))
	default:
		content = fmt.Sprintf("Successfully requested %s from %s!", phrase, series.Title)
		if len(out.Available) > 0 {
			content += fmt.Sprintf(" %s already downloaded.", seasonPhrase(out.Available, false))
		}
		rows = append(rows, statusButton("Requested", discordgo.PrimaryButton, v))
	}

	b.edit(i, &discordgo.WebhookEdit{Content: &content, Components: &rows})
}

func (b *Bot) reply(i *discordgo.Interaction, content string) {
	err := b.sess.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.logger.Error("failed to respond", "error", err)
	}
}

func (b *Bot) replyEphemeral(i *discordgo.Interaction, content string) {
	err := b.sess.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("failed to respond", "error", err)
	}
}

func (b *Bot) edit(i *discordgo.Interaction, e *discordgo.WebhookEdit) {
	if _, err := b.sess.InteractionResponseEdit(i, e); err != nil {
		b.logger.Error("failed to edit response", "error", err)
	}
}

func interactionUser(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func ptr[T any](v T) *T {
	return &v
}
