package levelapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/api/identity"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/game/maze"
	"github.com/lmoura00/JogoLabirinto/service"
	"github.com/lmoura00/JogoLabirinto/service/i"
)

// LevelController serves sessions and progress to authenticated players.
type LevelController struct {
	levels i.LevelService
}

// NewLevelController initializes a LevelController.
func NewLevelController(levels i.LevelService) *LevelController {
	return &LevelController{levels: levels}
}

// RegisterPublic registers public routes.
func (lc *LevelController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (lc *LevelController) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/levels", lc.start)

	sessions := route.Group("/sessions")
	{
		sessions.GET("/:ID", lc.session)
		sessions.POST("/:ID/moves", lc.move)
	}

	progress := route.Group("/progress")
	{
		progress.GET("", lc.progress)
		progress.DELETE("", lc.reset)
	}
}

// start opens a session for the requested or the stored level.
func (lc *LevelController) start(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request StartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := lc.levels.Start(ctx, playerID, request.Level)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newSessionResponse(session))
}

// session returns the state of one of the player's sessions.
func (lc *LevelController) session(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	session, err := lc.levels.Session(playerID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newSessionResponse(session))
}

// move applies one move to a session.
func (lc *LevelController) move(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir, err := game.ParseDirection(request.Direction)
	if err != nil {
		writeError(ctx, err)
		return
	}

	session, _, err := lc.levels.Move(ctx, playerID, sessionID, dir)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newSessionResponse(session))
}

// progress returns the player's current level and scores.
func (lc *LevelController) progress(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	p, err := lc.levels.Progress(ctx, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProgressResponse(p))
}

// reset clears the player's progress.
func (lc *LevelController) reset(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := lc.levels.ResetProgress(ctx, playerID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ids reads the authenticated player and the session path parameter,
// writing the error response itself when either is missing.
func ids(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, uuid.Nil, false
	}

	return playerID, sessionID, true
}

// writeError maps service and game errors to HTTP statuses.
func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, maze.ErrInvalidLevel), errors.Is(err, game.ErrInvalidDirection):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidStateTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSessionForbidden):
		status = http.StatusForbidden
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
