package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Done    func(DoneArgs) (Result, error)
	Delete  func(DeleteArgs) (Result, error)
	Snooze  func(SnoozeArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Online  func() (Result, error)
	Offline func() (Result, error)
	Sync    func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missingHandler("remind")
		}
		return handlers.Remind(*cmd.Remind)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missingHandler("delete")
		}
		return handlers.Delete(*cmd.Delete)
	case TypeSnooze:
		if handlers.Snooze == nil {
			return Result{}, missingHandler("snooze")
		}
		return handlers.Snooze(*cmd.Snooze)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missingHandler("show")
		}
		return handlers.Show(*cmd.Show)
	case TypeOnline:
		if handlers.Online == nil {
			return Result{}, missingHandler("online")
		}
		return handlers.Online()
	case TypeOffline:
		if handlers.Offline == nil {
			return Result{}, missingHandler("offline")
		}
		return handlers.Offline()
	case TypeSync:
		if handlers.Sync == nil {
			return Result{}, missingHandler("sync")
		}
		return handlers.Sync()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", name)}
}
