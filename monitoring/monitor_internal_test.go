package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/sirupsen/logrus"

	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/stats"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func get(url string) (int, string) {
	rsp, err := http.Get(url)
	Expect(err).To(BeNil())

	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	Expect(err).To(BeNil())

	return rsp.StatusCode, string(body)
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		s      *sim.Simulator
		st     *stats.Stats
		server *httptest.Server
	)

	BeforeEach(func() {
		st = stats.NewStats()

		logger := logrus.New()
		logger.SetOutput(GinkgoWriter)

		s = sim.MakeBuilder().
			WithStats(st).
			WithLogger(logger).
			Build()

		gen := sim.NewScheduledGenerator("tick", []float64{1, 2})
		s.RegisterGenerator(gen)
		s.RegisterHandler(sim.TypedHandlerFunc([]string{"tick"},
			func(e *sim.Event, _ *sim.Timeline, st sim.StatsRecorder) []*sim.Event {
				st.AddTimePoint("queue_len", e.Time(), 1)

				if next := gen.Generate(e.Time()); next != nil {
					return []*sim.Event{next}
				}

				return nil
			}))

		m = NewMonitor()
		m.RegisterSimulator(s)
		m.RegisterStats(st)

		server = httptest.NewServer(m.router())
		DeferCleanup(server.Close)
	})

	It("should list the API on the index page", func() {
		code, body := get(server.URL + "/")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("/api/now"))
		Expect(body).To(ContainSubstring("/api/progress"))
	})

	It("should serve the current time", func() {
		code, body := get(server.URL + "/api/now")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal(`{"now":0.0000000000}`))
	})

	It("should serve the progress of a finished run", func() {
		_, err := s.Run()
		Expect(err).To(BeNil())

		code, body := get(server.URL + "/api/progress")
		Expect(code).To(Equal(http.StatusOK))

		var p progressRsp
		Expect(json.Unmarshal([]byte(body), &p)).To(Succeed())

		Expect(p.State).To(Equal("stopped"))
		Expect(p.StopReason).To(Equal("timeline_drained"))
		Expect(p.Now).To(Equal(2.0))
		Expect(p.Popped).To(Equal(uint64(2)))
		Expect(p.Dropped).To(Equal(uint64(0)))
	})

	It("should pause and continue the simulator", func() {
		code, _ := get(server.URL + "/api/pause")
		Expect(code).To(Equal(http.StatusOK))

		code, _ = get(server.URL + "/api/continue")
		Expect(code).To(Equal(http.StatusOK))

		_, err := s.Run()
		Expect(err).To(BeNil())
		Expect(s.CurrentTime()).To(Equal(2.0))
	})

	It("should serve the stats summary", func() {
		st.AddCount("arrival", 2)
		st.AddValue("wait", 1.5)

		code, body := get(server.URL + "/api/stats")
		Expect(code).To(Equal(http.StatusOK))

		var sum stats.Summary
		Expect(json.Unmarshal([]byte(body), &sum)).To(Succeed())

		Expect(sum.Counters).To(HaveKeyWithValue("arrival", int64(2)))
		Expect(sum.Averages).To(HaveKeyWithValue("wait", 1.5))
	})

	It("should report missing stats", func() {
		bare := NewMonitor()
		bare.RegisterSimulator(s)

		bareServer := httptest.NewServer(bare.router())
		DeferCleanup(bareServer.Close)

		code, _ := get(bareServer.URL + "/api/stats")
		Expect(code).To(Equal(http.StatusNotFound))

		code, _ = get(bareServer.URL + "/api/stats/series/queue_len")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should serve a recorded time series", func() {
		_, err := s.Run()
		Expect(err).To(BeNil())

		code, body := get(server.URL + "/api/stats/series/queue_len")
		Expect(code).To(Equal(http.StatusOK))

		var pts []stats.TimePoint
		Expect(json.Unmarshal([]byte(body), &pts)).To(Succeed())

		Expect(pts).To(Equal([]stats.TimePoint{
			{Time: 1, Value: 1},
			{Time: 2, Value: 1},
		}))
	})

	It("should serve an empty series as an empty list", func() {
		code, body := get(server.URL + "/api/stats/series/no_such_key")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal("[]"))
	})

	It("should list registered models sorted by name", func() {
		m.RegisterModel("beta", struct{ N int }{N: 2})
		m.RegisterModel("alpha", struct{ N int }{N: 1})

		code, body := get(server.URL + "/api/models")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal(`["alpha","beta"]`))
	})

	It("should serve the state of a registered model", func() {
		m.RegisterModel("queue", &struct{ Length int }{Length: 3})

		code, body := get(server.URL + "/api/model/queue")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())
	})

	It("should report an unknown model", func() {
		code, _ := get(server.URL + "/api/model/no_such_model")

		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should serve progress bars", func() {
		code, body := get(server.URL + "/api/progressbars")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal("[]"))

		bar := m.CreateProgressBar("customers", 100)
		bar.IncrementFinished(25)
		done := m.CreateProgressBar("warmup", 10)
		m.CompleteProgressBar(done)

		code, body = get(server.URL + "/api/progressbars")
		Expect(code).To(Equal(http.StatusOK))

		var bars []*ProgressBar
		Expect(json.Unmarshal([]byte(body), &bars)).To(Succeed())

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("customers"))
		Expect(bars[0].Total).To(Equal(uint64(100)))
		Expect(bars[0].Finished).To(Equal(uint64(25)))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should track finished work", func() {
		bar := &ProgressBar{Total: 10}

		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)

		Expect(bar.InProgress).To(Equal(uint64(1)))
		Expect(bar.Finished).To(Equal(uint64(3)))
		Expect(bar.Percent()).To(Equal(30.0))
	})

	It("should report zero percent without a total", func() {
		bar := &ProgressBar{}
		bar.IncrementFinished(5)

		Expect(bar.Percent()).To(Equal(0.0))
	})
})
