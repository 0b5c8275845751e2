package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsName + ".Notify"
	peerPing            = "org.freedesktop.DBus.Peer.Ping"

	defaultAppName = "daily-quote"
	urgencyNormal  = byte(1)
)

// busCaller is the part of dbus.BusObject the sink uses.
type busCaller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}

// DBusSinkConfig contains configuration for desktop notifications.
type DBusSinkConfig struct {
	AppName string
	Icon    string

	// Timeout is how long the notification stays on screen; zero lets the
	// notification server decide.
	Timeout time.Duration

	Logger *slog.Logger
}

// DBusSink raises reminders as freedesktop desktop notifications on the
// session bus. It implements ports.ReminderSink and ports.HealthChecker.
type DBusSink struct {
	conn    *dbus.Conn
	obj     busCaller
	appName string
	icon    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewDBusSink connects to the session bus.
func NewDBusSink(cfg DBusSinkConfig) (*DBusSink, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, domain.NewUnavailableError("dbus", err.Error())
	}

	s := newDBusSink(conn.Object(notificationsName, notificationsPath), cfg)
	s.conn = conn

	return s, nil
}

func newDBusSink(obj busCaller, cfg DBusSinkConfig) *DBusSink {
	appName := cfg.AppName
	if appName == "" {
		appName = defaultAppName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DBusSink{
		obj:     obj,
		appName: appName,
		icon:    cfg.Icon,
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("component", "notify.DBusSink")),
	}
}

// Name implements ports.ReminderSink and ports.HealthChecker.
func (s *DBusSink) Name() string {
	return "dbus"
}

// Deliver implements ports.ReminderSink.
func (s *DBusSink) Deliver(ctx context.Context, reminder domain.ScheduledReminder) error {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyNormal),
	}

	call := s.obj.CallWithContext(ctx, notificationsNotify, 0,
		s.appName,
		uint32(0),
		s.icon,
		reminder.Title,
		reminder.Body,
		[]string{},
		hints,
		int32(s.timeout.Milliseconds()),
	)
	if call.Err != nil {
		return domain.NewUnavailableError("dbus", fmt.Sprintf("notify: %v", call.Err))
	}

	var serverID uint32
	if err := call.Store(&serverID); err == nil {
		s.logger.DebugContext(ctx, "desktop notification shown",
			slog.String("reminder_id", reminder.ID),
			slog.Uint64("notification_id", uint64(serverID)),
		)
	}

	return nil
}

// Check pings the notification server.
func (s *DBusSink) Check(ctx context.Context) error {
	call := s.obj.CallWithContext(ctx, peerPing, 0)
	if call.Err != nil {
		return domain.NewUnavailableError("dbus", call.Err.Error())
	}

	return nil
}

// Close releases the bus connection.
func (s *DBusSink) Close() error {
	if s.conn == nil {
		return nil
	}

	return s.conn.Close()
}
