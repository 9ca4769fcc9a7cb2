package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/hrcounter/internal/assets"
	"github.com/garrettladley/hrcounter/internal/uiloop"
)

// listen reads one value from a feed and turns it into a message. It must be
// re-issued after every message to keep listening.
func listen[T any](ctx context.Context, ch <-chan T, msg func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-ch:
			return msg(v)
		case <-ctx.Done():
			return FeedClosedMsg{Err: ctx.Err()}
		}
	}
}

func ListenTextCmd(ctx context.Context, feed TextFeed) tea.Cmd {
	return listen(ctx, feed.C(), func(text string) tea.Msg { return TextMsg{Text: text} })
}

func ListenPauseCmd(ctx context.Context, feed PauseFeed) tea.Cmd {
	return listen(ctx, feed.C(), func(bpm int) tea.Msg { return PausedMsg{BPM: bpm} })
}

func ListenStateCmd(ctx context.Context, feed StateFeed) tea.Cmd {
	return listen(ctx, feed.C(), func(t Transition) tea.Msg { return StateMsg{From: t.From, To: t.To} })
}

// LoadIconsCmd lists the icon cache from the UI loop, optionally rescanning
// the directory first.
func LoadIconsCmd(ctx context.Context, loop *uiloop.Loop, cache *assets.Cache, refresh bool) tea.Cmd {
	if loop == nil || cache == nil {
		return nil
	}
	return func() tea.Msg {
		var (
			entries []assets.Entry
			err     error
		)
		if doErr := loop.Do(ctx, func(ctx context.Context) {
			entries, err = cache.ListWithHandles(ctx, refresh)
		}); doErr != nil {
			return IconsMsg{Err: doErr}
		}
		if err != nil {
			return IconsMsg{Err: err}
		}

		icons := make([]IconInfo, len(entries))
		for i, e := range entries {
			icons[i] = IconInfo{Name: e.Name, Bounds: e.Icon.Bounds()}
		}
		return IconsMsg{Icons: icons}
	}
}
