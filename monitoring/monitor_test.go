package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/mem/memaccessagent"
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/hierarchy"
)

var _ = Describe("Monitor", func() {
	var (
		h      *hierarchy.Hierarchy
		driver *memaccessagent.Driver
		m      *Monitor
		router *mux.Router
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

		return rec
	}

	BeforeEach(func() {
		var err error

		h, err = hierarchy.Build(hierarchy.DefaultConfig())
		Expect(err).ToNot(HaveOccurred())
		h.Load([]storage.Word{1, 2, 3, 4, 5, 6, 7, 8})

		agent := memaccessagent.MakeBuilder().
			WithTarget(h.Outer()).
			WithAddressSpace(h.Space()).
			WithRequests(
				memaccessagent.ReadWord(0),
				memaccessagent.WriteWord(1, 20),
			).
			Build("cpu")
		driver = memaccessagent.NewDriver(agent)

		m = NewMonitor().WithPortNumber(0)
		m.RegisterHierarchy(h)
		m.RegisterDriver(driver)
		router = m.Router()
	})

	It("should list levels", func() {
		rec := get("/api/list_levels")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`["L1","DRAM"]`))
	})

	It("should tick the driver", func() {
		Expect(get("/api/now").Body.String()).To(MatchJSON(`{"now":0}`))

		rec := get("/api/tick")

		Expect(rec.Body.String()).To(MatchJSON(`{"now":1,"progress":true}`))
		Expect(driver.CurrentCycle()).To(Equal(uint64(1)))
	})

	It("should view the lines of a level", func() {
		rec := get("/api/view/DRAM?base=4&count=2")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(
			`{"level":"DRAM","base":4,"lines":[[5,6,7,8],[0,0,0,0]]}`))
	})

	It("should reject a bad view window", func() {
		rec := get("/api/view/DRAM?count=many")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 for unknown levels", func() {
		Expect(get("/api/view/L9").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/level/L9").Code).To(Equal(http.StatusNotFound))
	})

	It("should serialize a level", func() {
		rec := get("/api/level/L1")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should run the driver to the end", func() {
		rec := get("/api/run")
		Expect(rec.Code).To(Equal(http.StatusAccepted))

		Eventually(func() bool {
			m.Lock()
			defer m.Unlock()

			return driver.Done() && !m.running
		}).Should(BeTrue())

		stats := []hierarchy.LevelStats{}
		err := json.Unmarshal(get("/api/stats").Body.Bytes(), &stats)
		Expect(err).ToNot(HaveOccurred())
		Expect(stats).To(HaveLen(2))
		Expect(stats[0].Reads).To(Equal(uint64(1)))
		Expect(stats[0].Writes).To(Equal(uint64(1)))
		Expect(stats[0].Hits).To(Equal(uint64(1)))
		Expect(stats[1].Reads).To(Equal(uint64(1)))
	})

	It("should report progress while the driver runs", func() {
		Expect(get("/api/run").Code).To(Equal(http.StatusAccepted))

		running := func() bool {
			m.Lock()
			defer m.Unlock()

			return m.running
		}

		for running() {
			bars := []ProgressStatus{}
			Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
				To(Succeed())

			for _, b := range bars {
				Expect(b.Total).To(Equal(2))
				Expect(b.Finished + b.InProgress).To(BeNumerically("<=", b.Total))
			}
		}

		Expect(driver.Done()).To(BeTrue())
	})

	It("should refuse stepping without a driver", func() {
		m = NewMonitor()
		router = m.Router()

		Expect(get("/api/tick").Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(get("/api/list_levels").Body.String()).To(MatchJSON(`[]`))
	})

	It("should report resources", func() {
		rsp := resourceRsp{}

		err := json.Unmarshal(get("/api/resource").Body.Bytes(), &rsp)

		Expect(err).ToNot(HaveOccurred())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("Run", 10)
		bar.Update(3, 1, 6, 42)

		bars := []ProgressStatus{}
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Run"))
		Expect(bars[0].Total).To(Equal(10))
		Expect(bars[0].Finished).To(Equal(3))
		Expect(bars[0].InProgress).To(Equal(1))
		Expect(bars[0].Cycle).To(Equal(uint64(42)))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(MatchJSON(`[]`))
	})
})
