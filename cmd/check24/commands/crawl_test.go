package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"check24-backend/lib/crawl"

	"github.com/stretchr/testify/require"
)

func TestFinishCrawlSaveFailure(t *testing.T) {
	results := []crawl.Result{
		{Source: "asaka", Err: errors.New("unexpected status 500")},
		{Source: "asia_alliance", Offers: sample[2:]},
	}

	var stdout, stderr bytes.Buffer
	saved := false
	err := finishCrawl(&stdout, &stderr, outputFlags{format: formatJson}, results, func() error {
		// output is already written when saving starts
		require.Contains(t, stdout.String(), "Микрокредит")
		require.Contains(t, stderr.String(), "source asaka failed")
		saved = true
		return errors.New("database is locked")
	})
	require.True(t, saved)
	require.ErrorContains(t, err, "save offers: database is locked")
	require.NotErrorIs(t, err, errAllSourcesFailed)

	require.Equal(t, "source asaka failed: unexpected status 500\n", stderr.String())
	require.Contains(t, stdout.String(), "Кредит на обучение")
}

func TestFinishCrawl(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := finishCrawl(&stdout, &stderr, outputFlags{format: formatTable}, []crawl.Result{
		{Source: "asaka", Offers: sample[:2]},
	}, nil)
	require.NoError(t, err)
	require.Empty(t, stderr.String())
	require.Contains(t, strings.ToLower(stdout.String()), "2 offers")

	stdout.Reset()
	saved := false
	err = finishCrawl(&stdout, &stderr, outputFlags{format: formatTable}, []crawl.Result{
		{Source: "asaka", Err: errors.New("timeout")},
	}, func() error {
		saved = true
		return nil
	})
	require.True(t, saved)
	require.ErrorIs(t, err, errAllSourcesFailed)
	require.Contains(t, stderr.String(), "source asaka failed: timeout")
}
