package bus

import (
	"strconv"
	"testing"
)

type nopObserver struct{}

func (nopObserver) OnPublish(string, Event)               {}
func (nopObserver) OnDelivered(string, int, error, int64) {}

func BenchmarkPublishHitManySubscribers(b *testing.B) {
	for _, subs := range []int{1, 4, 16, 64} {
		b.Run("subs="+strconv.Itoa(subs), func(b *testing.B) {
			eb := New()
			var c int
			for i := 0; i < subs; i++ {
				_, _ = eb.Subscribe(EventHit, func(Event) error { c++; return nil })
			}
			e := NewEvent(EventHit, "target", nil)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = eb.Publish(e)
			}
		})
	}
}

func BenchmarkPublishSourceFiltered(b *testing.B) {
	eb := New()
	for i := 0; i < 32; i++ {
		_, _ = eb.SubscribeSource(EventHit, "target-"+strconv.Itoa(i), func(Event) error { return nil })
	}
	e := NewEvent(EventHit, "target-7", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eb.Publish(e)
	}
}

func BenchmarkPublishWithObserver(b *testing.B) {
	eb := New()
	eb.AddObserver(nopObserver{})
	_, _ = eb.Subscribe(EventHit, func(Event) error { return nil })
	e := NewEvent(EventHit, "target", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eb.Publish(e)
	}
}
