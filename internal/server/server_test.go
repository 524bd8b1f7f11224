package server_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/rzbill/taskqd/internal/queue"
	"github.com/rzbill/taskqd/internal/server"
	"github.com/rzbill/taskqd/internal/snapshot"
)

var _ = Describe("Server", func() {
	var (
		dir        string
		reg        *queue.Registry
		srv        *server.Server
		cancel     context.CancelFunc
		addr       string
		timeoutSec int64
	)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	startServer := func() {
		store, err := snapshot.NewFileStore(dir)
		Expect(err).NotTo(HaveOccurred())
		reg = queue.NewRegistry(timeoutSec, store)
		_, err = reg.Load()
		Expect(err).NotTo(HaveOccurred())

		srv = server.New(reg, logger, 10)
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go func() {
			defer GinkgoRecover()
			Expect(srv.ListenAndServe(ctx, "127.0.0.1:0")).To(Succeed())
		}()
		Eventually(srv.Addr, time.Second, 10*time.Millisecond).ShouldNot(BeNil())
		addr = srv.Addr().String()
	}

	// send writes one request and reads the full response; the server
	// closes the connection after responding.
	send := func(req string) string {
		conn, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()
		_, err = conn.Write([]byte(req))
		Expect(err).NotTo(HaveOccurred())
		resp, err := io.ReadAll(conn)
		Expect(err).NotTo(HaveOccurred())
		return string(resp)
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		timeoutSec = 300
	})

	JustBeforeEach(func() {
		startServer()
	})

	AfterEach(func() {
		cancel()
		srv.Close()
	})

	It("round-trips a task through ADD, IN, GET, ACK", func() {
		taskID := send("ADD 1 5 12345")
		Expect(taskID).To(HaveLen(36))

		Expect(send("IN 1 " + taskID)).To(Equal("YES"))
		Expect(send("GET 1")).To(Equal(taskID + " 5 12345"))
		Expect(send("IN 1 " + taskID)).To(Equal("YES"))
		Expect(send("ACK 1 " + taskID)).To(Equal("YES"))
		Expect(send("ACK 1 " + taskID)).To(Equal("NO"))
		Expect(send("IN 1 " + taskID)).To(Equal("NO"))
	})

	It("keeps a dispatched task hidden while dispatching the next one", func() {
		first := send("ADD 1 5 12345")
		second := send("ADD 1 5 12345")

		Expect(send("GET 1")).To(Equal(first + " 5 12345"))
		Expect(send("IN 1 " + first)).To(Equal("YES"))
		Expect(send("IN 1 " + second)).To(Equal("YES"))
		Expect(send("GET 1")).To(Equal(second + " 5 12345"))
		Expect(send("GET 1")).To(Equal("NONE"))

		Expect(send("ACK 1 " + second)).To(Equal("YES"))
		Expect(send("ACK 1 " + second)).To(Equal("NO"))
	})

	It("assembles a payload fragmented across multiple writes", func() {
		payload := strings.Repeat("12345", 1000)
		conn, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		head := fmt.Sprintf("ADD big %d %s", len(payload), payload[:100])
		_, err = conn.Write([]byte(head))
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(50 * time.Millisecond)
		for off := 100; off < len(payload); off += 1000 {
			end := off + 1000
			if end > len(payload) {
				end = len(payload)
			}
			_, err = conn.Write([]byte(payload[off:end]))
			Expect(err).NotTo(HaveOccurred())
		}
		taskID, err := io.ReadAll(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(taskID).To(HaveLen(36))

		Expect(send("GET big")).To(Equal(fmt.Sprintf("%s %d %s", taskID, len(payload), payload)))
	})

	It("rejects malformed requests without creating tasks", func() {
		Expect(send("ADDD 1 5 12345")).To(Equal("ERROR"))
		Expect(send("ADD 1 5")).To(Equal("ERROR"))
		Expect(send("ADD 1 five 12345")).To(Equal("ERROR"))
		Expect(send("GET")).To(Equal("ERROR"))
		Expect(send("SAVE now")).To(Equal("ERROR"))
		Expect(send(string([]byte{0xff, 0xfe}))).To(Equal("ERROR"))

		// The malformed ADDs must not have created queue "1".
		Expect(send("GET 1")).To(Equal("UNKNOWN-QUEUE"))
	})

	It("distinguishes unknown queues from empty ones", func() {
		Expect(send("GET nope")).To(Equal("UNKNOWN-QUEUE"))
		Expect(send("IN nope 456789")).To(Equal("UNKNOWN-QUEUE"))
		Expect(send("ACK nope 456789")).To(Equal("UNKNOWN-QUEUE"))
	})

	It("persists tasks across a server restart via SAVE", func() {
		first := send("ADD 2 5 12345")
		second := send("ADD 2 5 12345")
		Expect(send("IN 2 " + first)).To(Equal("YES"))
		Expect(send("IN 2 " + second)).To(Equal("YES"))
		Expect(send("SAVE")).To(Equal("OK"))

		cancel()
		srv.Close()
		startServer()

		Expect(send("IN 2 " + first)).To(Equal("YES"))
		Expect(send("IN 2 " + second)).To(Equal("YES"))
	})

	Context("with a one-second visibility timeout", func() {
		BeforeEach(func() {
			timeoutSec = 1
		})

		It("redelivers an unacknowledged task and rejects the late ack", func() {
			taskID := send("ADD q 1 x")
			Expect(send("GET q")).To(Equal(taskID + " 1 x"))
			Expect(send("GET q")).To(Equal("NONE"))

			time.Sleep(1100 * time.Millisecond)
			Expect(send("ACK q " + taskID)).To(Equal("NO"))
			Expect(send("GET q")).To(Equal(taskID + " 1 x"))
		})
	})
})
