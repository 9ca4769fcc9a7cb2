package xslog

import (
	"log/slog"
	"time"

	"github.com/garrettladley/hrcounter/internal/version"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Backoff(backoff time.Duration) slog.Attr {
	const backoffKey = "backoff"
	return slog.Duration(backoffKey, backoff)
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Source(kind string) slog.Attr {
	const sourceKey = "source"
	return slog.String(sourceKey, kind)
}

func BPM(bpm int) slog.Attr {
	const bpmKey = "bpm"
	return slog.Int(bpmKey, bpm)
}

func Transition(from, to string) slog.Attr {
	const (
		transitionKey = "transition"
		fromKey       = "from"
		toKey         = "to"
	)
	return slog.Group(transitionKey,
		slog.String(fromKey, from),
		slog.String(toKey, to),
	)
}

func Misses(n int) slog.Attr {
	const missesKey = "misses"
	return slog.Int(missesKey, n)
}

func File(name string) slog.Attr {
	const fileKey = "file"
	return slog.String(fileKey, name)
}

func Dir(path string) slog.Attr {
	const dirKey = "dir"
	return slog.String(dirKey, path)
}

func Generation(gen uint64) slog.Attr {
	const generationKey = "generation"
	return slog.Uint64(generationKey, gen)
}

func Data(data string) slog.Attr {
	const dataKey = "data"
	return slog.String(dataKey, data)
}

func Event(event string) slog.Attr {
	const eventKey = "event"
	return slog.String(eventKey, event)
}
