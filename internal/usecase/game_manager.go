package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
	"github.com/rocketscienceinc/chainreaction-backend/internal/chainreaction"
	"github.com/rocketscienceinc/chainreaction-backend/internal/config"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
	"github.com/rocketscienceinc/chainreaction-backend/internal/telemetry"
)

const OpponentBot = "bot"

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	CompareAndSwap(ctx context.Context, game *entity.Game, expectedVersion uint64) error
}

type moveRepo interface {
	Save(ctx context.Context, record entity.MoveRecord) error
	ListByGameID(ctx context.Context, gameID string) ([]entity.MoveRecord, error)
}

type statsRepo interface {
	RecordResult(ctx context.Context, playerID string, won bool, at time.Time) error
	GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerStats, error)
}

type botPlayer interface {
	ChooseMove(game *entity.Game, playerID string) (entity.Position, error)
}

type CreateGameRequest struct {
	Rows       int
	Cols       int
	Player     entity.Player
	MaxPlayers int
	Opponent   string
	Difficulty string
}

type MoveResult struct {
	Game       *entity.Game `json:"game"`
	IsGameOver bool         `json:"isGameOver"`
	WinnerID   string       `json:"winnerId,omitempty"`
}

// GameManager serialises every change to a game through a versioned
// compare-and-swap. It keeps no game state in memory.
type GameManager struct {
	logger *slog.Logger
	tracer trace.Tracer
	limits config.Game

	gameRepo  gameRepo
	moveRepo  moveRepo
	statsRepo statsRepo
	bot       botPlayer

	now   func() time.Time
	newID func() string
}

func NewGameManager(
	logger *slog.Logger,
	limits config.Game,
	gameRepo gameRepo,
	moveRepo moveRepo,
	statsRepo statsRepo,
	bot botPlayer,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		tracer: telemetry.Tracer(),
		limits: limits,

		gameRepo:  gameRepo,
		moveRepo:  moveRepo,
		statsRepo: statsRepo,
		bot:       bot,

		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (that *GameManager) CreateGame(ctx context.Context, req CreateGameRequest) (_ *entity.Game, err error) {
	ctx, span := that.tracer.Start(ctx, "GameManager.CreateGame")
	defer func() { endSpan(span, err) }()

	rows, cols := req.Rows, req.Cols
	if rows == 0 {
		rows = that.limits.DefaultRows
	}
	if cols == 0 {
		cols = that.limits.DefaultCols
	}

	if !that.validDimension(rows) || !that.validDimension(cols) {
		return nil, fmt.Errorf("%w: %dx%d, each side must be within [%d, %d]",
			apperror.ErrInvalidGridSize, rows, cols, that.limits.MinDimension, that.limits.MaxDimension)
	}

	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = entity.DefaultMaxPlayers
	}
	if maxPlayers < entity.DefaultMaxPlayers || maxPlayers > entity.MaxPlayersLimit {
		return nil, fmt.Errorf("%w: max players %d", apperror.ErrInvalidPlayer, maxPlayers)
	}

	if req.Player.ID == "" {
		return nil, fmt.Errorf("%w: player id is required", apperror.ErrInvalidPlayer)
	}

	withBot := false
	switch req.Opponent {
	case "":
	case OpponentBot:
		withBot = true
		maxPlayers = entity.DefaultMaxPlayers
	default:
		return nil, fmt.Errorf("%w: unknown opponent %q", apperror.ErrInvalidPlayer, req.Opponent)
	}

	creator := req.Player
	creator.Kind = entity.KindHuman
	creator.Difficulty = ""
	if creator.IsBot() {
		return nil, fmt.Errorf("%w: id %s is reserved", apperror.ErrInvalidPlayer, creator.ID)
	}

	now := that.now()
	game := entity.NewGame(that.newID(), chainreaction.NewGrid(rows, cols), creator, maxPlayers, now)
	if withBot {
		game.AddPlayer(entity.NewBotPlayer(game.ID, req.Difficulty), now)
	}

	span.SetAttributes(attribute.String("game.id", game.ID))

	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID, "rows", rows, "cols", cols, "bot", withBot)

	return game, nil
}

func (that *GameManager) JoinGame(ctx context.Context, gameID string, player entity.Player) (_ *entity.Game, err error) {
	ctx, span := that.tracer.Start(ctx, "GameManager.JoinGame", trace.WithAttributes(attribute.String("game.id", gameID)))
	defer func() { endSpan(span, err) }()

	if player.ID == "" {
		return nil, fmt.Errorf("%w: player id is required", apperror.ErrInvalidPlayer)
	}

	player.Kind = entity.KindHuman
	player.Difficulty = ""
	if player.IsBot() {
		return nil, fmt.Errorf("%w: id %s is reserved", apperror.ErrInvalidPlayer, player.ID)
	}

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.HasPlayer(player.ID) {
		return nil, fmt.Errorf("%w: player %s in game %s", apperror.ErrAlreadyJoined, player.ID, gameID)
	}

	if !game.IsWaiting() || game.IsFull() {
		return nil, fmt.Errorf("%w: game %s is not open for joining", apperror.ErrConflict, gameID)
	}

	next := game.Clone()
	next.AddPlayer(player, that.now())
	next.Version = game.Version + 1

	if err = that.gameRepo.CompareAndSwap(ctx, next, game.Version); err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	that.logger.Info("player joined", "game_id", gameID, "player_id", player.ID, "status", next.Status)

	return next, nil
}

// SubmitMove applies one move for callerID. Moves by bots that follow are
// applied before returning, and a failure there never fails the caller's move.
// A bot move still pending from such a failure is played instead and the call
// fails with apperror.ErrConflict.
func (that *GameManager) SubmitMove(ctx context.Context, gameID, callerID string, x, y int) (_ *MoveResult, err error) {
	ctx, span := that.tracer.Start(ctx, "GameManager.SubmitMove", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("player.id", callerID),
		attribute.Int("move.x", x),
		attribute.Int("move.y", y),
	))
	defer func() { endSpan(span, err) }()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmActive(); err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	if !game.HasPlayer(callerID) || (entity.Player{ID: callerID}).IsBot() {
		return nil, fmt.Errorf("%w: player %s is not in game %s", apperror.ErrForbidden, callerID, gameID)
	}

	// a bot turn left over from an earlier conflict is played first, and the
	// caller has to see its result before moving
	if current, ok := game.CurrentPlayer(); ok && current.IsBot() {
		that.playBots(ctx, game)
		return nil, fmt.Errorf("%w: game %s had a pending bot move, reload the game", apperror.ErrConflict, gameID)
	}

	next, err := that.applyMove(ctx, game, entity.Move{PlayerID: callerID, X: x, Y: y})
	if err != nil {
		return nil, err
	}

	next = that.playBots(ctx, next)

	return &MoveResult{
		Game:       next,
		IsGameOver: next.IsGameOver,
		WinnerID:   next.WinnerID,
	}, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

func (that *GameManager) ListMoves(ctx context.Context, gameID string) ([]entity.MoveRecord, error) {
	records, err := that.moveRepo.ListByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	return records, nil
}

func (that *GameManager) GetPlayerStats(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	stats, err := that.statsRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	return stats, nil
}

// applyMove validates, applies and persists a single move against the loaded
// snapshot. A concurrent write surfaces as apperror.ErrConflict.
func (that *GameManager) applyMove(ctx context.Context, game *entity.Game, move entity.Move) (*entity.Game, error) {
	log := that.logger.With("method", "applyMove", "game_id", game.ID, "player_id", move.PlayerID)

	if err := chainreaction.ValidateMove(game, move); err != nil {
		return nil, err
	}

	next, outcome := chainreaction.ApplyMove(game, move, that.now())
	next.Version = game.Version + 1

	if !outcome.Resolution.Settled {
		log.Warn("chain reaction stopped at pass limit",
			"passes", outcome.Resolution.Passes,
			"explosions", outcome.Resolution.Explosions,
		)
	}

	if err := that.gameRepo.CompareAndSwap(ctx, next, game.Version); err != nil {
		return nil, fmt.Errorf("failed to save move: %w", err)
	}

	log.Debug("move applied", "x", move.X, "y", move.Y, "version", next.Version, "explosions", outcome.Resolution.Explosions)

	// the move is committed, so its side effects must outlive a cancelled request
	sideCtx := context.WithoutCancel(ctx)
	that.recordMove(sideCtx, next, move)

	if next.IsGameOver {
		log.Info("game over", "winner_id", next.WinnerID, "moves", next.TotalMoves)
		that.recordResults(sideCtx, next)
	}

	return next, nil
}

func (that *GameManager) playBots(ctx context.Context, game *entity.Game) *entity.Game {
	log := that.logger.With("method", "playBots", "game_id", game.ID)

	for !game.IsGameOver {
		current, ok := game.CurrentPlayer()
		if !ok || !current.IsBot() {
			break
		}

		pos, err := that.bot.ChooseMove(game, current.ID)
		if err != nil {
			log.Warn("bot could not choose a move", "error", err)
			break
		}

		next, err := that.applyMove(ctx, game, entity.Move{PlayerID: current.ID, X: pos.X, Y: pos.Y})
		if err != nil {
			log.Warn("bot move was not applied", "error", err)
			break
		}

		game = next
	}

	return game
}

func (that *GameManager) recordMove(ctx context.Context, game *entity.Game, move entity.Move) {
	record := entity.MoveRecord{
		GameID:     game.ID,
		PlayerID:   move.PlayerID,
		MoveNumber: game.TotalMoves,
		X:          move.X,
		Y:          move.Y,
		CreatedAt:  that.now(),
	}

	if err := that.moveRepo.Save(ctx, record); err != nil {
		that.logger.Warn("failed to record move", "game_id", game.ID, "move_number", record.MoveNumber, "error", err)
	}
}

func (that *GameManager) recordResults(ctx context.Context, game *entity.Game) {
	at := that.now()
	if game.EndedAt != nil {
		at = *game.EndedAt
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		if err := that.statsRepo.RecordResult(ctx, player.ID, player.ID == game.WinnerID, at); err != nil {
			that.logger.Warn("failed to record result", "game_id", game.ID, "player_id", player.ID, "error", err)
		}
	}
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) validDimension(n int) bool {
	return n >= that.limits.MinDimension && n <= that.limits.MaxDimension
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperror.Kind(err))
	}
	span.End()
}
