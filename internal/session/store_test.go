package session

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore()
	})

	When("no session exists", func() {
		It("With returns false", func() {
			called := false
			ok := store.With("missing", func(*Session) { called = true })
			Expect(ok).To(BeFalse())
			Expect(called).To(BeFalse())
		})

		It("Remove is a no-op", func() {
			store.Remove("missing")
			Expect(store.Len()).To(BeZero())
		})
	})

	When("a session is stored", func() {
		var sess *Session

		BeforeEach(func() {
			sess = NewSession(testReceipt())
			store.Put("conv", sess)
		})

		It("With hands out the stored session", func() {
			var got *Session
			ok := store.With("conv", func(s *Session) { got = s })
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(sess))
		})

		It("Put replaces it silently", func() {
			replacement := NewSession(testReceipt())
			store.Put("conv", replacement)

			var got *Session
			store.With("conv", func(s *Session) { got = s })
			Expect(got).To(BeIdenticalTo(replacement))
			Expect(store.Len()).To(Equal(1))
		})

		It("Remove retires it", func() {
			store.Remove("conv")
			Expect(store.With("conv", func(*Session) {})).To(BeFalse())
		})
	})

	When("many conversations mutate concurrently", func() {
		It("serializes per key without cross-talk", func() {
			const conversations = 16
			const updates = 50

			var wg sync.WaitGroup
			for i := 0; i < conversations; i++ {
				id := fmt.Sprintf("conv-%d", i)
				store.Put(id, NewSession(testReceipt()))
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					for j := 0; j < updates; j++ {
						store.With(id, func(s *Session) {
							s.confirmed = append(s.confirmed, s.products[0])
						})
					}
				}(id)
			}
			wg.Wait()

			Expect(store.Len()).To(Equal(conversations))
			for i := 0; i < conversations; i++ {
				store.With(fmt.Sprintf("conv-%d", i), func(s *Session) {
					Expect(s.confirmed).To(HaveLen(updates))
				})
			}
		})
	})
})
