package core

import (
	"context"

	"pkt.systems/termdeck/schema"
)

// Service is the transport-agnostic API for managed runs and terminal
// sessions.
type Service interface {
	StartRun(ctx context.Context, req schema.StartRunRequest) (schema.StartRunResponse, error)
	StopRun(ctx context.Context, req schema.StopRunRequest) (schema.StopRunResponse, error)
	KillRun(ctx context.Context, req schema.KillRunRequest) (schema.KillRunResponse, error)
	GetRun(ctx context.Context, req schema.GetRunRequest) (schema.GetRunResponse, error)
	WaitRun(ctx context.Context, req schema.WaitRunRequest) (schema.WaitRunResponse, error)
	GetRunLog(ctx context.Context, req schema.GetRunLogRequest) (schema.GetRunLogResponse, error)

	CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error)
	CloseSession(ctx context.Context, req schema.CloseSessionRequest) (schema.CloseSessionResponse, error)
	ActivateSession(ctx context.Context, req schema.ActivateSessionRequest) (schema.ActivateSessionResponse, error)
	ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error)
	GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error)
	ExecuteCommand(ctx context.Context, req schema.ExecuteCommandRequest) (schema.ExecuteCommandResponse, error)
	CancelCommand(ctx context.Context, req schema.CancelCommandRequest) (schema.CancelCommandResponse, error)
	NavigateHistory(ctx context.Context, req schema.NavigateHistoryRequest) (schema.NavigateHistoryResponse, error)
	GetHistory(ctx context.Context, req schema.GetHistoryRequest) (schema.GetHistoryResponse, error)
	ChangeWorkingDir(ctx context.Context, req schema.ChangeWorkingDirRequest) (schema.ChangeWorkingDirResponse, error)

	Close(ctx context.Context) error
}
