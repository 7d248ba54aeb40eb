package service

import (
	"context"
	"errors"

	"formation-feedback/backend/internal/model"
	"formation-feedback/backend/pkg/mailer"
)

// ── Mock SubmissionRepository ──

type insertCall struct {
	table string
	row   model.Row
}

type mockSubmissionRepo struct {
	configured bool
	insertErr  error
	calls      []insertCall
	nextID     int64
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{configured: true}
}

func (m *mockSubmissionRepo) Configured() bool { return m.configured }

func (m *mockSubmissionRepo) Insert(_ context.Context, table string, row model.Row) error {
	m.calls = append(m.calls, insertCall{table: table, row: row})
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	switch r := row.(type) {
	case *model.EvaluationResponse:
		r.ID = m.nextID
	case *model.ExpectationResponse:
		r.ID = m.nextID
	}
	return nil
}

// ── Mock Notifier ──

type mockNotifier struct {
	configured bool
	sendErr    error
	panicOnUse bool
	sent       []*mailer.Message
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{configured: true}
}

func (m *mockNotifier) Configured() bool { return m.configured }

func (m *mockNotifier) Send(_ context.Context, msg *mailer.Message) (string, error) {
	if m.panicOnUse {
		panic("unexpected send")
	}
	m.sent = append(m.sent, msg)
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return "msg-1", nil
}

var errUpstream = errors.New(`new row for relation "evaluation_responses" violates check constraint`)
