package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/storage"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, candidateHandler *handler.CandidateHandler) {
	api := h.Group("/api/v1")

	api.POST("/candidates/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		extra := ctx.PostForm("additional_fields") == "true"

		resp, err := candidateHandler.HandleUpload(c, fileHeader, extra)
		if err != nil {
			if errors.Is(err, handler.ErrUnsupportedFileType) {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/candidates/batch", func(c context.Context, ctx *app.RequestContext) {
		form, err := ctx.MultipartForm()
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "解析multipart表单失败"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件列表为空"})
			return
		}

		extra := ctx.PostForm("additional_fields") == "true"

		resp, err := candidateHandler.HandleBatchUpload(c, files, extra)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/candidates", func(c context.Context, ctx *app.RequestContext) {
		records, err := candidateHandler.HandleList(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"total": len(records), "candidates": records})
	})

	api.GET("/candidates/export", func(c context.Context, ctx *app.RequestContext) {
		data, err := candidateHandler.HandleExport(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
		ctx.Data(consts.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	})

	api.GET("/candidates/:id", func(c context.Context, ctx *app.RequestContext) {
		id := ctx.Param("id")
		record, err := candidateHandler.HandleGetByID(c, id)
		if err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "候选人记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.DELETE("/candidates", func(c context.Context, ctx *app.RequestContext) {
		deleted, err := candidateHandler.HandleDeleteAll(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"deleted": deleted})
	})

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
