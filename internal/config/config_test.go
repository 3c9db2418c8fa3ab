package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/lden/internal/config"
	"github.com/okian/lden/internal/domain/model"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have the conventional defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.PeriodNames(), convey.ShouldResemble, model.PeriodNames{"Day", "Evening", "Night"})
			convey.So(cfg.OperatingConditionsFile, convey.ShouldEqual, "Default_Operating_Conditions.csv")
			convey.So(cfg.OutputFile, convey.ShouldEqual, "LDEN_Included.xml")
			convey.So(cfg.ResultName, convey.ShouldEqual, "LDEN")
			convey.So(cfg.ExportFile, convey.ShouldBeEmpty)
			convey.So(cfg.MetricsFile, convey.ShouldBeEmpty)
			convey.So(cfg.DutyFloor, convey.ShouldEqual, 1e-20)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with one bad setting", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty day", func(c *config.Config) { c.Day = "" }},
			{"blank night", func(c *config.Config) { c.Night = "  " }},
			{"empty duty file", func(c *config.Config) { c.OperatingConditionsFile = "" }},
			{"empty output", func(c *config.Config) { c.OutputFile = "" }},
			{"empty result name", func(c *config.Config) { c.ResultName = "" }},
			{"zero floor", func(c *config.Config) { c.DutyFloor = 0 }},
			{"negative floor", func(c *config.Config) { c.DutyFloor = -1 }},
			{"bad format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"bad level", func(c *config.Config) { c.LogLevel = "loud" }},
		}

		for _, tc := range cases {
			cfg := config.New(context.Background())
			tc.mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+tc.name+" should be rejected as a configuration error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, model.ErrConfiguration), convey.ShouldBeTrue)
			})
		}
	})
}
