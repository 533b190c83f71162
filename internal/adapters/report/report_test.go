package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/rostersim/internal/domain/types"
	"github.com/okian/rostersim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type recorder struct {
	got []types.Report
	err error
}

func (r *recorder) Emit(_ context.Context, rep types.Report) error {
	r.got = append(r.got, rep)
	return r.err
}

func sample() types.Report {
	return types.Report{
		TrialIndex:     5000,
		ElapsedSeconds: 1.25,
		Accuracy:       62.5,
		Leaders: []types.Leader{
			{Rank: 1, AthleteID: 11, Name: "Alpha", Weight: 14},
			{Rank: 2, AthleteID: 12, Name: "Beta", Weight: -3},
		},
	}
}

func TestConsoleEmitter(t *testing.T) {
	Convey("Given a console emitter over a buffer", t, func() {
		var buf bytes.Buffer
		e := NewConsole(&buf)

		Convey("When a report is emitted", func() {
			So(e.Emit(context.Background(), sample()), ShouldBeNil)
			out := buf.String()

			Convey("Then the block lists the header and leaders in order", func() {
				So(out, ShouldContainSubstring, "Iteration number 5000")
				So(out, ShouldContainSubstring, "1.250 seconds since last post")
				So(out, ShouldContainSubstring, "62.5% of predictions were correct")
				So(strings.Index(out, "Alpha: 14"), ShouldBeLessThan, strings.Index(out, "Beta: -3"))
			})
		})
	})

	Convey("Given a writer that fails", t, func() {
		err := NewConsole(failingWriter{}).Emit(context.Background(), sample())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "write report 5000")
	})
}

func TestLogEmitter(t *testing.T) {
	Convey("Given a log emitter", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)
		defer func() { _ = logger.Init() }()

		So(NewLog(nil).Emit(context.Background(), sample()), ShouldBeNil)

		Convey("Then the report and each leader are logged", func() {
			out := buf.String()
			So(out, ShouldContainSubstring, "simulation report")
			So(out, ShouldContainSubstring, "accuracy_percentage=62.5")
			So(strings.Count(out, "msg=leader"), ShouldEqual, 2)
		})
	})
}

func TestMultiEmitter(t *testing.T) {
	Convey("Given emitters where one fails", t, func() {
		cause := errors.New("sink down")
		first, second := &recorder{err: cause}, &recorder{}
		err := MultiEmitter{first, second}.Emit(context.Background(), sample())

		Convey("Then every emitter still receives the report", func() {
			So(first.got, ShouldHaveLength, 1)
			So(second.got, ShouldHaveLength, 1)
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})

	Convey("Given no failures", t, func() {
		So(MultiEmitter{&recorder{}}.Emit(context.Background(), sample()), ShouldBeNil)
	})
}
