package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient tracks post ids already ingested so that a reconnect
// replaying part of the stream does not hand duplicates to the store.
type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const (
	valkeySeenKey = "posts:seen_ids"
	seenTTL       = 86400
)

func buildClient() (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to ping: %w", res.Error())
	}

	return client, nil
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := buildClient()
		if err != nil {
			panic(err)
		}
		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := buildClient()
	if err != nil {
		panic(err)
	}
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
	vc.Client = client
}

// MarkSeen records a post id for 24h.
func (vc *ValkeyClient) MarkSeen(ctx context.Context, id string) error {
	completed := []valkey.Completed{
		vc.Client.B().Sadd().Key(valkeySeenKey).Member(id).Build(),
		vc.Client.B().Expire().Key(valkeySeenKey).Seconds(seenTTL).Build(),
	}

	for _, res := range vc.doMultiWithRetry(ctx, completed, 3) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

// IsSeen reports whether a post id was already ingested. A cache failure
// reads as "not seen": the primary-key constraint on the posts table is
// the backstop.
func (vc *ValkeyClient) IsSeen(ctx context.Context, id string) bool {
	res := vc.doWithRetry(ctx, vc.Client.B().Sismember().Key(valkeySeenKey).Member(id).Build(), 3)

	if err := res.Error(); isConnectionError(err) {
		vc.recreateClient()
	}

	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}

func (vc *ValkeyClient) doMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] DoMulti failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
