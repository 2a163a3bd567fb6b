package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KennethC12/Ticketbot/internal/errs"
	"github.com/KennethC12/Ticketbot/internal/events"
	"github.com/KennethC12/Ticketbot/internal/platform"
	"github.com/KennethC12/Ticketbot/internal/storage"
)

func newStatusService(adapter *fakeAdapter) (*StatusService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	svc := NewStatusService(store, adapter, events.NewProducer(nil, ""), "order-status")
	return svc, store
}

// sequentialPoster возвращает PostBanner, выдающий banner-1, banner-2, ...
func sequentialPoster() PostBanner {
	n := 0
	return func(_ context.Context, channelID string, isOpen bool) (string, error) {
		n++
		return fmt.Sprintf("banner-%d", n), nil
	}
}

func TestSetStatusUnauthorized(t *testing.T) {
	svc, store := newStatusService(newFakeAdapter())
	_, err := svc.SetStatus(context.Background(), "g1", true, false, sequentialPoster())
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
	snapshot, _ := store.LoadStatus()
	if len(snapshot) != 0 {
		t.Fatalf("unauthorized call mutated state: %+v", snapshot)
	}
}

func TestStatusChannelResolution(t *testing.T) {
	cases := []struct {
		name     string
		channels []platform.Channel
		want     string
		wantErr  error
	}{
		{
			name: "exact configured name wins",
			channels: []platform.Channel{
				{ID: "c1", Name: "general-orders"},
				{ID: "c2", Name: "order-status"},
			},
			want: "c2",
		},
		{
			name: "substring fallback on order",
			channels: []platform.Channel{
				{ID: "c1", Name: "general"},
				{ID: "c2", Name: "my-orders"},
			},
			want: "c2",
		},
		{
			name: "substring fallback on status",
			channels: []platform.Channel{
				{ID: "c1", Name: "shop-STATUS"},
			},
			want: "c1",
		},
		{
			name: "no candidate",
			channels: []platform.Channel{
				{ID: "c1", Name: "general"},
			},
			wantErr: errs.ErrStatusChannelNotFound,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newFakeAdapter()
			adapter.channels = tt.channels
			svc, store := newStatusService(adapter)

			channelID, err := svc.SetStatus(context.Background(), "g1", true, true, sequentialPoster())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				snapshot, _ := store.LoadStatus()
				if len(snapshot) != 0 {
					t.Fatalf("failed resolution mutated state: %+v", snapshot)
				}
				return
			}
			if channelID != tt.want {
				t.Fatalf("channel = %q, want %q", channelID, tt.want)
			}
		})
	}
}

func TestSetStatusReplacesBanner(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.channels = []platform.Channel{{ID: "c1", Name: "order-status"}}
	svc, store := newStatusService(adapter)
	post := sequentialPoster()

	// Первый тумблер: прежней ссылки нет, это не ошибка.
	if _, err := svc.SetStatus(context.Background(), "g1", true, true, post); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if n := len(adapter.deletedMessageList()); n != 0 {
		t.Fatalf("first toggle deleted %d messages, want 0", n)
	}

	if _, err := svc.SetStatus(context.Background(), "g1", false, true, post); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), "g1", true, true, post); err != nil {
		t.Fatalf("third toggle: %v", err)
	}

	// Каждый тумблер убирает ровно один предыдущий баннер.
	deleted := adapter.deletedMessageList()
	if len(deleted) != 2 || deleted[0] != "c1/banner-1" || deleted[1] != "c1/banner-2" {
		t.Fatalf("deleted = %v, want [c1/banner-1 c1/banner-2]", deleted)
	}

	// Хранится только последняя ссылка.
	snapshot, _ := store.LoadStatus()
	st := snapshot["g1"]
	if st == nil {
		t.Fatal("no status record after toggles")
	}
	if !st.IsOpen || st.MessageID != "banner-3" || st.ChannelID != "c1" {
		t.Fatalf("status = %+v, want open banner-3 in c1", st)
	}
}

func TestSetStatusDeleteFailureSwallowed(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.channels = []platform.Channel{{ID: "c1", Name: "order-status"}}
	svc, store := newStatusService(adapter)
	post := sequentialPoster()

	if _, err := svc.SetStatus(context.Background(), "g1", true, true, post); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	adapter.deleteMsgErr = errAdapterDown
	if _, err := svc.SetStatus(context.Background(), "g1", false, true, post); err != nil {
		t.Fatalf("toggle with failing delete: %v", err)
	}

	snapshot, _ := store.LoadStatus()
	st := snapshot["g1"]
	if st == nil || st.IsOpen || st.MessageID != "banner-2" {
		t.Fatalf("status = %+v, want closed banner-2", st)
	}
}

func TestSetStatusPostFailureStillPersists(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.channels = []platform.Channel{{ID: "c1", Name: "order-status"}}
	svc, store := newStatusService(adapter)

	failing := func(_ context.Context, channelID string, isOpen bool) (string, error) {
		return "", errAdapterDown
	}
	if _, err := svc.SetStatus(context.Background(), "g1", true, true, failing); err != nil {
		t.Fatalf("toggle with failing post: %v", err)
	}

	snapshot, _ := store.LoadStatus()
	st := snapshot["g1"]
	if st == nil || !st.IsOpen {
		t.Fatalf("status = %+v, want open", st)
	}
	if st.MessageID != "" {
		t.Fatalf("message id = %q, want empty after failed post", st.MessageID)
	}
}

func TestStatusDefaultsClosed(t *testing.T) {
	svc, _ := newStatusService(newFakeAdapter())
	st, err := svc.Status("unknown-guild")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.IsOpen || st.MessageID != "" || st.ChannelID != "" {
		t.Fatalf("default status = %+v, want closed with no banner", st)
	}
}
