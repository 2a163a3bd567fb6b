package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KennethC12/Ticketbot/internal/platform"
)

// fakeAdapter — platform.Adapter для тестов: запоминает вызовы, умеет падать.
type fakeAdapter struct {
	mu          sync.Mutex
	nextChannel int
	nextMessage int

	createErr    error
	deleteMsgErr error
	channels     []platform.Channel

	sentMessages    []string
	deletedMessages []string
	deletedChannels []string
	permissions     map[string]bool

	channelDeleted chan string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		permissions:    map[string]bool{},
		channelDeleted: make(chan string, 8),
	}
}

func (f *fakeAdapter) CreatePrivateChannel(_ context.Context, guildID, category, name, ownerUserID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextChannel++
	return fmt.Sprintf("chan-%d", f.nextChannel), nil
}

func (f *fakeAdapter) SendMessage(_ context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessage++
	id := fmt.Sprintf("msg-%d", f.nextMessage)
	f.sentMessages = append(f.sentMessages, channelID+"/"+id)
	return id, nil
}

func (f *fakeAdapter) EditMessage(_ context.Context, channelID, messageID, content string) error {
	return nil
}

func (f *fakeAdapter) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteMsgErr != nil {
		return f.deleteMsgErr
	}
	f.deletedMessages = append(f.deletedMessages, channelID+"/"+messageID)
	return nil
}

func (f *fakeAdapter) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	f.deletedChannels = append(f.deletedChannels, channelID)
	f.mu.Unlock()
	f.channelDeleted <- channelID
	return nil
}

func (f *fakeAdapter) SetChannelPermission(_ context.Context, channelID, userID string, allowed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permissions[channelID+"/"+userID] = allowed
	return nil
}

func (f *fakeAdapter) GuildChannels(_ context.Context, guildID string) ([]platform.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels, nil
}

func (f *fakeAdapter) HasCapability(_ context.Context, guildID, userID string, cap platform.Capability) (bool, error) {
	return false, nil
}

func (f *fakeAdapter) deletedMessageList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletedMessages))
	copy(out, f.deletedMessages)
	return out
}

var errAdapterDown = errors.New("adapter down")
