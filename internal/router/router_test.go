package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.FollowOutbox{},
	))

	mr := miniredis.RunT(t)
	require.NoError(t, redis.Init(mr.Addr(), "", 0))

	r := InitRouter(db, pkg.SMTPConfig{}, &redis.PageCache{TTL: 20 * time.Second})
	return &env{db: db, mr: mr, router: r}
}

func (e *env) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signupLogin 走真实接口注册并登录，返回 access token
func (e *env) signupLogin(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/signup/", "", gin.H{
		"username": username,
		"password": "pass123",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return e.login(t, username)
}

func (e *env) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/login/", "", gin.H{
		"username": username,
		"password": "pass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		AccessToken string `json:"AccessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (e *env) lastPostID(t *testing.T) uint64 {
	t.Helper()
	var post model.Post
	require.NoError(t, e.db.Order("id DESC").First(&post).Error)
	return post.ID
}

func TestLoginGateRedirectsWithNext(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/create/", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", w.Header().Get("Location"))

	// 垃圾 token 同样被挡
	w = e.do(t, http.MethodGet, "/follow/", "garbage", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestUnknownPathNotFound(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/definitely/not/here/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePostValidationAndRedirect(t *testing.T) {
	e := newEnv(t)
	token := e.signupLogin(t, "leo")

	// 空文本：200 + 字段级错误（表单重渲染约定）
	w := e.do(t, http.MethodPost, "/create/", token, gin.H{"text": ""})
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["errors"], "text")

	// 不存在的 group 同理
	w = e.do(t, http.MethodPost, "/create/", token, gin.H{"text": "hi", "group_id": 999})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["errors"], "group")

	// 成功后跳作者主页
	w = e.do(t, http.MethodPost, "/create/", token, gin.H{"text": "hello"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))
}

func TestNonAuthorEditSilentRedirect(t *testing.T) {
	e := newEnv(t)
	leo := e.signupLogin(t, "leo")
	mia := e.signupLogin(t, "mia")

	w := e.do(t, http.MethodPost, "/create/", leo, gin.H{"text": "original"})
	require.Equal(t, http.StatusFound, w.Code)
	postID := e.lastPostID(t)

	// 非作者提交编辑：302 回详情，不是错误；内容不变
	w = e.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/edit/", postID), mia, gin.H{"text": "hacked"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", postID), w.Header().Get("Location"))

	var post model.Post
	require.NoError(t, e.db.First(&post, postID).Error)
	assert.Equal(t, "original", post.Text)

	// GET 编辑页同样被跳走
	w = e.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/edit/", postID), mia, nil)
	assert.Equal(t, http.StatusFound, w.Code)

	// 作者可改
	w = e.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/edit/", postID), leo, gin.H{"text": "edited"})
	assert.Equal(t, http.StatusFound, w.Code)
	require.NoError(t, e.db.First(&post, postID).Error)
	assert.Equal(t, "edited", post.Text)
}

func TestPostCommentEndToEnd(t *testing.T) {
	e := newEnv(t)
	leo := e.signupLogin(t, "leo")
	mia := e.signupLogin(t, "mia")

	slug := "go"
	group := &model.Group{Title: "Go", Slug: &slug}
	require.NoError(t, e.db.Create(group).Error)

	w := e.do(t, http.MethodPost, "/create/", leo, gin.H{"text": "T", "group_id": group.ID})
	require.Equal(t, http.StatusFound, w.Code)
	postID := e.lastPostID(t)

	// 详情：text/group/零评论
	w = e.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Post struct {
			Text    string  `json:"Text"`
			GroupID *uint64 `json:"GroupID"`
		} `json:"post"`
		Comments []struct {
			Text     string `json:"Text"`
			AuthorID uint64 `json:"AuthorID"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "T", detail.Post.Text)
	require.NotNil(t, detail.Post.GroupID)
	assert.Equal(t, group.ID, *detail.Post.GroupID)
	assert.Empty(t, detail.Comments)

	// 另一用户评论后详情出现该评论
	w = e.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment", postID), mia, gin.H{"text": "C"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", postID), w.Header().Get("Location"))

	w = e.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "C", detail.Comments[0].Text)

	var mia2 model.User
	require.NoError(t, e.db.Where("username = ?", "mia").First(&mia2).Error)
	assert.Equal(t, mia2.ID, detail.Comments[0].AuthorID)

	// 群组页只含该组帖子
	w = e.do(t, http.MethodGet, "/group/go/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/group/missing/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowRedirectContract(t *testing.T) {
	e := newEnv(t)
	e.signupLogin(t, "leo")
	mia := e.signupLogin(t, "mia")

	// 新建边：跳订阅流
	w := e.do(t, http.MethodGet, "/profile/leo/follow/", mia, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))

	// 重复关注：跳回作者主页，不建新边
	w = e.do(t, http.MethodGet, "/profile/leo/follow/", mia, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))

	var n int64
	require.NoError(t, e.db.Model(&model.Follow{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	// 自关注：no-op，跳自己主页
	w = e.do(t, http.MethodGet, "/profile/mia/follow/", mia, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/mia/", w.Header().Get("Location"))

	// 取关：跳订阅流；再次取关：跳主页
	w = e.do(t, http.MethodGet, "/profile/leo/unfollow/", mia, nil)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))
	w = e.do(t, http.MethodGet, "/profile/leo/unfollow/", mia, nil)
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))

	// 作者不存在：404
	w = e.do(t, http.MethodGet, "/profile/ghost/follow/", mia, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexCacheStaleness(t *testing.T) {
	e := newEnv(t)
	leo := e.signupLogin(t, "leo")

	w := e.do(t, http.MethodPost, "/create/", leo, gin.H{"text": "visible"})
	require.Equal(t, http.StatusFound, w.Code)
	postID := e.lastPostID(t)

	// 首次请求渲染并写缓存
	w = e.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.Bytes()
	assert.Contains(t, string(first), "visible")

	// 删帖后 TTL 窗口内仍然返回旧字节
	require.NoError(t, e.db.Delete(&model.Post{}, postID).Error)
	w = e.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, w.Body.Bytes())

	// 显式 flush 后反映删除
	var admin model.User
	require.NoError(t, e.db.Where("username = ?", "leo").First(&admin).Error)
	require.NoError(t, e.db.Model(&admin).Update("role", 1).Error)
	adminToken := e.login(t, "leo")

	w = e.do(t, http.MethodPost, "/cache/flush/", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(w.Body.Bytes()), "visible")

	// 自然过期同样生效
	e.do(t, http.MethodPost, "/create/", adminToken, gin.H{"text": "fresh"})
	w = e.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cached := w.Body.Bytes()
	e.mr.FastForward(21 * time.Second)
	w = e.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, cached, w.Body.Bytes())
}

func TestAdminGate(t *testing.T) {
	e := newEnv(t)
	token := e.signupLogin(t, "leo")

	// 普通用户禁止 flush
	w := e.do(t, http.MethodPost, "/cache/flush/", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
