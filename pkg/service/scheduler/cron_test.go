package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/service/scheduler"
)

func TestMatchField(t *testing.T) {
	t.Run("wildcard matches everything", func(t *testing.T) {
		for _, v := range []int{0, 1, 30, 59} {
			gt.Bool(t, scheduler.MatchField("*", v)).True()
		}
	})

	t.Run("step matches multiples", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("*/15", 0)).True()
		gt.Bool(t, scheduler.MatchField("*/15", 30)).True()
		gt.Bool(t, scheduler.MatchField("*/15", 45)).True()
		gt.Bool(t, scheduler.MatchField("*/15", 20)).False()
	})

	t.Run("step with zero or garbage never matches", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("*/0", 0)).False()
		gt.Bool(t, scheduler.MatchField("*/x", 10)).False()
	})

	t.Run("list matches members only", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("1,15,30", 15)).True()
		gt.Bool(t, scheduler.MatchField("1,15,30", 16)).False()
	})

	t.Run("range is inclusive", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("9-17", 9)).True()
		gt.Bool(t, scheduler.MatchField("9-17", 17)).True()
		gt.Bool(t, scheduler.MatchField("9-17", 18)).False()
	})

	t.Run("literal matches single value", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("30", 30)).True()
		gt.Bool(t, scheduler.MatchField("30", 31)).False()
	})

	t.Run("garbage never matches", func(t *testing.T) {
		gt.Bool(t, scheduler.MatchField("monday", 1)).False()
		gt.Bool(t, scheduler.MatchField("a-b", 3)).False()
	})
}

func TestMatchesCron(t *testing.T) {
	ctx := context.Background()

	t.Run("all wildcards matches any instant", func(t *testing.T) {
		now := time.Date(2025, 6, 15, 13, 37, 0, 0, time.UTC)
		gt.Bool(t, scheduler.MatchesCron(ctx, "* * * * *", now)).True()
	})

	t.Run("weekly schedule fires on the right weekday", func(t *testing.T) {
		// 2025-06-16 is a Monday
		monday := time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)
		tuesday := monday.Add(24 * time.Hour)

		gt.Bool(t, scheduler.MatchesCron(ctx, "0 8 * * 1", monday)).True()
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 8 * * 1", tuesday)).False()
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 8 * * 1", monday.Add(time.Minute))).False()
	})

	t.Run("nightly schedule matches only its minute", func(t *testing.T) {
		at := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 3 * * *", at)).True()
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 3 * * *", at.Add(time.Minute))).False()
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 3 * * *", at.Add(time.Hour))).False()
	})

	t.Run("month and day fields are honored", func(t *testing.T) {
		xmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 0 25 12 *", xmas)).True()
		gt.Bool(t, scheduler.MatchesCron(ctx, "0 0 25 11 *", xmas)).False()
	})

	t.Run("wrong field count fails closed", func(t *testing.T) {
		now := time.Date(2025, 6, 15, 13, 37, 0, 0, time.UTC)
		gt.Bool(t, scheduler.MatchesCron(ctx, "* * * *", now)).False()
		gt.Bool(t, scheduler.MatchesCron(ctx, "* * * * * *", now)).False()
		gt.Bool(t, scheduler.MatchesCron(ctx, "", now)).False()
	})
}
