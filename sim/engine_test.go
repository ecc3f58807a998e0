package sim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Engine", func() {
	var (
		mockCtrl *gomock.Controller
		model    *MockModel
		control  *RunControl
		engine   *Engine
		ctx      context.Context
		trail    []string
	)

	schedule := func(kind EventKind, t float64) {
		engine.Events().Add(NewEvent(kind, t))
	}

	initializeWith := func(events ...Event) {
		model.EXPECT().Initialize().DoAndReturn(func() error {
			for _, ev := range events {
				engine.Events().Add(ev)
			}
			return nil
		})
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		model = NewMockModel(mockCtrl)
		control = NewRunControl()
		engine = NewEngine(10, control)
		ctx = context.Background()
		trail = nil
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch every event due at a time before starting services", func() {
		initializeWith(
			NewEvent(Kind(testArrival), 1),
			NewEvent(Kind(testArrival), 10),
			NewEvent(StationKind(testDeparture, 0), 1),
		)
		model.EXPECT().HandleEvent(gomock.Any()).DoAndReturn(func(ev Event) error {
			trail = append(trail, "event "+ev.String())
			return nil
		}).Times(3)
		model.EXPECT().TryStartIdleServices().DoAndReturn(func() error {
			trail = append(trail, fmt.Sprintf("services@%.0f", engine.Clock().Now()))
			return nil
		}).Times(2)
		model.EXPECT().Finalize().DoAndReturn(func() error {
			trail = append(trail, "finalize")
			return nil
		})

		status, err := engine.Run(ctx, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(StatusCompleted))
		Expect(trail).To(Equal([]string{
			"event ARR@1.0000",
			"event DEP[0]@1.0000",
			"services@1",
			"event ARR@10.0000",
			"services@10",
			"finalize",
		}))
	})

	It("should still process the first events at or past the horizon", func() {
		initializeWith(NewEvent(Kind(testArrival), 12))
		model.EXPECT().HandleEvent(gomock.Any()).Return(nil)
		model.EXPECT().TryStartIdleServices().Return(nil)
		model.EXPECT().Finalize().Return(nil)

		status, err := engine.Run(ctx, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(StatusCompleted))
		Expect(engine.Clock().Now()).To(Equal(12.0))
	})

	It("should keep the clock monotonic across phase A", func() {
		engine = NewEngine(5, control)
		var seen []float64
		engine.AcceptHook(HookFunc(func(hc HookCtx) {
			if hc.Pos == HookPosAfterAdvance {
				seen = append(seen, hc.Now)
			}
		}))
		initializeWith(NewEvent(Kind(testArrival), 0.5))
		model.EXPECT().HandleEvent(gomock.Any()).DoAndReturn(func(ev Event) error {
			if ev.Kind() == Kind(testArrival) {
				schedule(ev.Kind(), ev.Time()+1)
				schedule(StationKind(testDeparture, 0), ev.Time()+0.25)
			}
			return nil
		}).AnyTimes()
		model.EXPECT().TryStartIdleServices().Return(nil).AnyTimes()
		model.EXPECT().Finalize().Return(nil)

		_, err := engine.Run(ctx, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(seen).NotTo(BeEmpty())
		for i := 1; i < len(seen); i++ {
			Expect(seen[i]).To(BeNumerically(">=", seen[i-1]))
		}
		Expect(seen[len(seen)-1]).To(BeNumerically(">=", 5.0))
	})

	It("should pass the dispatched event to after-event hooks", func() {
		var items []any
		engine.AcceptHook(HookFunc(func(hc HookCtx) {
			if hc.Pos == HookPosAfterEvent {
				items = append(items, hc.Item)
			}
		}))
		initializeWith(NewEvent(Kind(testArrival), 11))
		model.EXPECT().HandleEvent(gomock.Any()).Return(nil)
		model.EXPECT().TryStartIdleServices().Return(nil)
		model.EXPECT().Finalize().Return(nil)

		_, err := engine.Run(ctx, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].(Event).Kind()).To(Equal(Kind(testArrival)))
	})

	It("should fail when nothing is scheduled", func() {
		initializeWith()

		status, err := engine.Run(ctx, model)

		Expect(status).To(Equal(StatusFailed))
		Expect(errors.Is(err, ErrEmptyEventList)).To(BeTrue())
	})

	It("should fail when initialization fails", func() {
		model.EXPECT().Initialize().Return(errors.New("no arrivals"))

		status, err := engine.Run(ctx, model)

		Expect(status).To(Equal(StatusFailed))
		Expect(err).To(MatchError(ContainSubstring("no arrivals")))
	})

	It("should stop without finalizing when an event handler fails", func() {
		initializeWith(NewEvent(StationKind(testDeparture, 1), 2))
		model.EXPECT().HandleEvent(gomock.Any()).Return(ErrStationIdle)

		status, err := engine.Run(ctx, model)

		Expect(status).To(Equal(StatusFailed))
		Expect(errors.Is(err, ErrStationIdle)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("DEP[1]"))
	})

	It("should return cancelled without finalizing when the context is done", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		initializeWith(NewEvent(Kind(testArrival), 1))

		status, err := engine.Run(cancelled, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(StatusCancelled))
	})

	It("should interrupt the throttle delay on cancellation", func() {
		control.SetThrottle(time.Hour)
		cancellable, cancel := context.WithCancel(ctx)
		initializeWith(NewEvent(Kind(testArrival), 1))
		go func() {
			defer GinkgoRecover()
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		status, err := engine.Run(cancellable, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(StatusCancelled))
	})

	It("should hold at the phase boundary while paused", func() {
		var handled atomic.Int32
		control.Pause()
		initializeWith(NewEvent(Kind(testArrival), 10))
		model.EXPECT().HandleEvent(gomock.Any()).DoAndReturn(func(Event) error {
			handled.Add(1)
			return nil
		})
		model.EXPECT().TryStartIdleServices().Return(nil)
		model.EXPECT().Finalize().Return(nil)

		done := make(chan RunStatus, 1)
		go func() {
			defer GinkgoRecover()
			status, err := engine.Run(ctx, model)
			Expect(err).NotTo(HaveOccurred())
			done <- status
		}()

		Consistently(handled.Load, 50*time.Millisecond).Should(BeZero())
		control.Resume()
		Eventually(done).Should(Receive(Equal(StatusCompleted)))
		Expect(handled.Load()).To(Equal(int32(1)))
	})

	It("should cancel a paused run", func() {
		control.Pause()
		cancellable, cancel := context.WithCancel(ctx)
		initializeWith(NewEvent(Kind(testArrival), 1))

		done := make(chan RunStatus, 1)
		go func() {
			defer GinkgoRecover()
			status, _ := engine.Run(cancellable, model)
			done <- status
		}()
		cancel()

		Eventually(done).Should(Receive(Equal(StatusCancelled)))
	})

	It("should apply submitted updates before advancing time", func() {
		initializeWith(NewEvent(Kind(testArrival), 10))
		control.Submit(func() error {
			schedule(StationKind(testDeparture, 3), 4)
			return nil
		})
		model.EXPECT().HandleEvent(gomock.Any()).DoAndReturn(func(ev Event) error {
			trail = append(trail, ev.String())
			return nil
		}).Times(2)
		model.EXPECT().TryStartIdleServices().Return(nil).Times(2)
		model.EXPECT().Finalize().Return(nil)

		_, err := engine.Run(ctx, model)

		Expect(err).NotTo(HaveOccurred())
		Expect(trail).To(Equal([]string{"DEP[3]@4.0000", "ARR@10.0000"}))
	})

	It("should fail when a submitted update fails", func() {
		initializeWith(NewEvent(Kind(testArrival), 1))
		control.Submit(func() error { return errors.New("bad update") })

		status, err := engine.Run(ctx, model)

		Expect(status).To(Equal(StatusFailed))
		Expect(err).To(MatchError(ContainSubstring("bad update")))
	})

	It("should start each run from time zero", func() {
		engine = NewEngine(1, control)
		for i := 0; i < 2; i++ {
			model.EXPECT().Initialize().DoAndReturn(func() error {
				Expect(engine.Clock().Now()).To(BeZero())
				Expect(engine.Events().Len()).To(BeZero())
				schedule(Kind(testArrival), 1)
				schedule(Kind(testArrival), 3)
				return nil
			})
		}
		model.EXPECT().HandleEvent(gomock.Any()).Return(nil).Times(2)
		model.EXPECT().TryStartIdleServices().Return(nil).Times(2)
		model.EXPECT().Finalize().Return(nil).Times(2)

		for i := 0; i < 2; i++ {
			status, err := engine.Run(ctx, model)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(StatusCompleted))
		}
	})
})

var _ = Describe("RunStatus", func() {
	It("should name each status", func() {
		Expect(StatusCompleted.String()).To(Equal("completed"))
		Expect(StatusCancelled.String()).To(Equal("cancelled"))
		Expect(StatusFailed.String()).To(Equal("failed"))
		Expect(RunStatus(7).String()).To(Equal("RunStatus(7)"))
	})
})
