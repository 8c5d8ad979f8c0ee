package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		log := Get()
		So(log, ShouldNotBeNil)

		Convey("When logging at info", func() {
			log.Info(context.Background(), "loaded records", Int("records", 6), String("path", "data.csv"))

			Convey("Then the message and fields are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "loaded records")
				So(out, ShouldContainSubstring, "records=6")
				So(out, ShouldContainSubstring, "path=data.csv")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			log.Info(context.Background(), "hidden")
			log.Error(context.Background(), "shown", Error(errors.New("boom")))

			Convey("Then only the error line is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "error=boom")
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("render").With(String("run_id", "r1")).Warn(context.Background(), "narrow terminal")

			Convey("Then component and bound fields appear", func() {
				So(buf.String(), ShouldContainSubstring, "component=render")
				So(buf.String(), ShouldContainSubstring, "run_id=r1")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true)), ShouldBeNil)

		Get().Info(context.Background(), "hello", Int("n", 1))

		So(buf.String(), ShouldStartWith, "{")
		So(buf.String(), ShouldContainSubstring, `"msg":"hello"`)
		So(buf.String(), ShouldContainSubstring, `"n":1`)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString(" WARNING "), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		So(func() { Nop().Error(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
