package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipeline_OpenPublishesImmediately(t *testing.T) {
	var mu sync.Mutex
	published := map[string]any{}

	p := New(20*time.Millisecond, 2, ReleaseMaxStackBytes, func(uri, content string) any {
		return content
	}, func(uri string, result any) {
		mu.Lock()
		published[uri] = result
		mu.Unlock()
	})
	defer p.Shutdown()

	p.Open("file:///a.rho", "contract foo() = { Nil }")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return published["file:///a.rho"] == "contract foo() = { Nil }"
	}, time.Second, 5*time.Millisecond)
}

func TestPipeline_RapidChangesDebounceToOneParse(t *testing.T) {
	var mu sync.Mutex
	parseCount := 0

	p := New(30*time.Millisecond, 2, ReleaseMaxStackBytes, func(uri, content string) any {
		mu.Lock()
		parseCount++
		mu.Unlock()
		return content
	}, func(uri string, result any) {})
	defer p.Shutdown()

	p.Open("file:///a.rho", "v0")
	require.Eventually(t, func() bool { mu.Lock(); defer mu.Unlock(); return parseCount == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < 5; i++ {
		p.Change("file:///a.rho", "v1")
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	count := parseCount
	mu.Unlock()
	require.Equal(t, 2, count) // one for Open, one collapsed parse for the burst of Changes
}

func TestPipeline_SupersededParseIsNotPublished(t *testing.T) {
	var mu sync.Mutex
	var publishedContents []string

	slow := make(chan struct{})
	p := New(5*time.Millisecond, 2, ReleaseMaxStackBytes, func(uri, content string) any {
		if content == "slow" {
			<-slow
		}
		return content
	}, func(uri string, result any) {
		mu.Lock()
		publishedContents = append(publishedContents, result.(string))
		mu.Unlock()
	})
	defer p.Shutdown()

	p.Open("file:///a.rho", "slow")
	time.Sleep(10 * time.Millisecond) // let the slow parse start and pass the version check read
	p.Change("file:///a.rho", "fast")
	time.Sleep(50 * time.Millisecond)
	close(slow)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, publishedContents, "fast")
	require.NotContains(t, publishedContents, "slow")
}

func TestPipeline_CloseCancelsPendingParse(t *testing.T) {
	var mu sync.Mutex
	parseCount := 0

	p := New(50*time.Millisecond, 2, ReleaseMaxStackBytes, func(uri, content string) any {
		mu.Lock()
		parseCount++
		mu.Unlock()
		return content
	}, func(uri string, result any) {})
	defer p.Shutdown()

	p.Open("file:///a.rho", "v0")
	require.Eventually(t, func() bool { mu.Lock(); defer mu.Unlock(); return parseCount == 1 }, time.Second, 5*time.Millisecond)

	p.Change("file:///a.rho", "v1")
	p.Close("file:///a.rho")

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, parseCount)
}
