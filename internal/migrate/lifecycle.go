package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Phase is one of the six ordered lifecycle stages.
type Phase int

// Phases in execution order.
const (
	PhaseCreateTable Phase = iota
	PhaseCreatedTable
	PhaseCreateIndex
	PhaseCreatedIndex
	PhaseCreateTrigger
	PhaseCreatedTrigger
)

var phaseNames = [...]string{
	PhaseCreateTable:    "createTable",
	PhaseCreatedTable:   "createdTable",
	PhaseCreateIndex:    "createIndex",
	PhaseCreatedIndex:   "createdIndex",
	PhaseCreateTrigger:  "createTrigger",
	PhaseCreatedTrigger: "createdTrigger",
}

// Phases lists every phase in execution order.
var Phases = []Phase{
	PhaseCreateTable,
	PhaseCreatedTable,
	PhaseCreateIndex,
	PhaseCreatedIndex,
	PhaseCreateTrigger,
	PhaseCreatedTrigger,
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// TableContext is passed to table phase handlers once per distinct table.
type TableContext struct {
	Conn      Conn
	TableName string
	Columns   []types.ColumnDefinition
	Table     *types.TableDefinition
}

// IndexContext is passed to index phase handlers once per index.
type IndexContext struct {
	Conn      Conn
	TableName string
	Index     types.IndexDefinition
	Table     *types.TableDefinition
}

// TriggerContext is passed to trigger phase handlers once per trigger.
type TriggerContext struct {
	Conn      Conn
	TableName string
	Trigger   types.TriggerDefinition
	Table     *types.TableDefinition
}

// Handler types for each kind of phase.
type (
	TableHandler   func(ctx context.Context, tc TableContext) error
	IndexHandler   func(ctx context.Context, ic IndexContext) error
	TriggerHandler func(ctx context.Context, tc TriggerContext) error
)

// PhaseObserver is notified when a phase starts.
type PhaseObserver func(ctx context.Context, p Phase)

// Lifecycle runs registered handlers over a MigrationData in a fixed phase
// order. Handlers are registered first, then Run executes them.
//
// The createTable phase is for create-if-absent work. The createdTable phase
// runs only after every table has been through createTable, so a post-table
// handler may rely on any other table existing.
type Lifecycle struct {
	conn   Conn
	data   MigrationData
	logger *slog.Logger

	createTable    []TableHandler
	createdTable   []TableHandler
	createIndex    []IndexHandler
	createdIndex   []IndexHandler
	createTrigger  []TriggerHandler
	createdTrigger []TriggerHandler
	observers      []PhaseObserver
}

// NewLifecycle creates a Lifecycle over data using conn. A nil logger uses
// slog.Default().
func NewLifecycle(conn Conn, data MigrationData, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{conn: conn, data: data, logger: logger}
}

// CreateTable registers a pre-table handler.
func (l *Lifecycle) CreateTable(h TableHandler) *Lifecycle {
	l.createTable = append(l.createTable, h)
	return l
}

// CreatedTable registers a post-table handler.
func (l *Lifecycle) CreatedTable(h TableHandler) *Lifecycle {
	l.createdTable = append(l.createdTable, h)
	return l
}

// CreateIndex registers a pre-index handler.
func (l *Lifecycle) CreateIndex(h IndexHandler) *Lifecycle {
	l.createIndex = append(l.createIndex, h)
	return l
}

// CreatedIndex registers a post-index handler.
func (l *Lifecycle) CreatedIndex(h IndexHandler) *Lifecycle {
	l.createdIndex = append(l.createdIndex, h)
	return l
}

// CreateTrigger registers a pre-trigger handler.
func (l *Lifecycle) CreateTrigger(h TriggerHandler) *Lifecycle {
	l.createTrigger = append(l.createTrigger, h)
	return l
}

// CreatedTrigger registers a post-trigger handler.
func (l *Lifecycle) CreatedTrigger(h TriggerHandler) *Lifecycle {
	l.createdTrigger = append(l.createdTrigger, h)
	return l
}

// Observe registers a callback invoked at the start of every phase.
func (l *Lifecycle) Observe(o PhaseObserver) *Lifecycle {
	l.observers = append(l.observers, o)
	return l
}

// Run executes the six phases in order, one object at a time. The first
// handler error stops the run and is returned wrapped with the phase and
// object name.
func (l *Lifecycle) Run(ctx context.Context) error {
	tables := l.tableContexts()

	for _, phase := range Phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", phase, err)
		}
		for _, o := range l.observers {
			o(ctx, phase)
		}
		l.logger.Debug("migration phase", "phase", phase.String())

		var err error
		switch phase {
		case PhaseCreateTable:
			err = runTables(ctx, phase, tables, l.createTable)
		case PhaseCreatedTable:
			err = runTables(ctx, phase, tables, l.createdTable)
		case PhaseCreateIndex:
			err = l.runIndexes(ctx, phase, l.createIndex)
		case PhaseCreatedIndex:
			err = l.runIndexes(ctx, phase, l.createdIndex)
		case PhaseCreateTrigger:
			err = l.runTriggers(ctx, phase, l.createTrigger)
		case PhaseCreatedTrigger:
			err = l.runTriggers(ctx, phase, l.createdTrigger)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// tableContexts groups the column work-list by table, in first-seen order.
func (l *Lifecycle) tableContexts() []TableContext {
	index := make(map[string]int)
	var out []TableContext
	for _, c := range l.data.Columns {
		i, ok := index[c.TableName]
		if !ok {
			i = len(out)
			index[c.TableName] = i
			out = append(out, TableContext{Conn: l.conn, TableName: c.TableName, Table: c.Table})
		}
		out[i].Columns = append(out[i].Columns, c.Column)
	}
	return out
}

func runTables(ctx context.Context, phase Phase, tables []TableContext, handlers []TableHandler) error {
	if len(handlers) == 0 {
		return nil
	}
	for _, tc := range tables {
		for _, h := range handlers {
			if err := h(ctx, tc); err != nil {
				return fmt.Errorf("%s table %s: %w", phase, tc.TableName, err)
			}
		}
	}
	return nil
}

func (l *Lifecycle) runIndexes(ctx context.Context, phase Phase, handlers []IndexHandler) error {
	if len(handlers) == 0 {
		return nil
	}
	for _, item := range l.data.Indexes {
		ic := IndexContext{Conn: l.conn, TableName: item.TableName, Index: item.Index, Table: item.Table}
		for _, h := range handlers {
			if err := h(ctx, ic); err != nil {
				return fmt.Errorf("%s index %s: %w", phase, item.Index.Name, err)
			}
		}
	}
	return nil
}

func (l *Lifecycle) runTriggers(ctx context.Context, phase Phase, handlers []TriggerHandler) error {
	if len(handlers) == 0 {
		return nil
	}
	for _, item := range l.data.Triggers {
		tc := TriggerContext{Conn: l.conn, TableName: item.TableName, Trigger: item.Trigger, Table: item.Table}
		for _, h := range handlers {
			if err := h(ctx, tc); err != nil {
				return fmt.Errorf("%s trigger %s: %w", phase, item.Trigger.Name, err)
			}
		}
	}
	return nil
}
