package mq

import (
	"context"
	"sync"

	"mapmeet/mailer"
)

// Report records the outcome of a notification fan-out. Failed maps a
// recipient address to the error message for that recipient.
type Report struct {
	Sent   []string          `json:"sent"`
	Failed map[string]string `json:"failed"`
}

// FanOut emails every recipient concurrently. One recipient failing
// never stops delivery to the others; the Report carries both lists.
func FanOut(ctx context.Context, m mailer.Mailer, recipients []string, subject, htmlBody string) Report {
	report := Report{Failed: map[string]string{}}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, to := range recipients {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			err := m.Send(to, subject, htmlBody)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[to] = err.Error()
				return
			}
			report.Sent = append(report.Sent, to)
		}(to)
	}
	wg.Wait()

	return report
}
