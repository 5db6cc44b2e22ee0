package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"kindtrail/internal/config"
	"kindtrail/internal/db"
	"kindtrail/internal/middleware"
	"kindtrail/internal/repository"
	"kindtrail/internal/router"
	"kindtrail/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	sessions map[string]*services.CheckoutSession
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{ID: "cs_" + req.Username, URL: "https://pay.example/" + req.Username}, nil
}

func (f *fakeProvider) GetCheckoutSession(_ context.Context, id string) (*services.CheckoutSession, error) {
	if sess, ok := f.sessions[id]; ok {
		return sess, nil
	}
	return nil, io.EOF
}

type testApp struct {
	server  *httptest.Server
	store   *repository.Store
	users   *services.UserService
	uploads string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(&config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)
	store := repository.NewStore(gdb)

	geocoder, err := services.NewGeocoder(time.Hour)
	require.NoError(t, err)

	users := services.NewUserService(store)
	prize := services.NewPrizeService(store)
	provider := &fakeProvider{sessions: map[string]*services.CheckoutSession{
		"cs_done": {ID: "cs_done", Completed: true, ClientReferenceID: "alice"},
	}}

	uploads := t.TempDir()
	r := gin.New()
	r.Use(sessions.Sessions(middleware.SessionName, middleware.NewSessionStore("test-secret", "http://site")))
	renderer, err := router.LoadTemplates("../../web/templates")
	require.NoError(t, err)
	r.HTMLRender = renderer

	router.RegisterRoutes(r, router.Deps{
		Users:    users,
		Stories:  services.NewStoryService(store),
		Prize:    prize,
		Winners:  services.NewWinnerService(store, prize),
		Payments: services.NewPaymentService(users, provider, "http://site/success", "http://site/"),
		Geocoder: geocoder,
		Captcha:  services.NewCaptchaService(),
		Images:   services.NewImageStore(uploads, 1),
		PriceID:  "price_test",
		SiteURL:  "http://site",
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return &testApp{server: server, store: store, users: users, uploads: uploads}
}

// client keeps cookies and does not follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) register(t *testing.T, username string, subscribed bool) {
	t.Helper()
	ctx := context.Background()
	_, err := a.users.Register(ctx, username, username+"@mail.org")
	require.NoError(t, err)
	if subscribed {
		require.NoError(t, a.users.Subscribe(ctx, username))
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postMultipart(t *testing.T, c *http.Client, u string, fields map[string]string, filename string, data []byte) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image_file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := c.Post(u, w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a *testApp) login(t *testing.T, c *http.Client, username string) {
	t.Helper()
	resp, _ := post(t, c, a.server.URL+"/login", url.Values{"username": {username}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

// html/template writes "+" as "&#43;".
var captchaPattern = regexp.MustCompile(`New here\? (\d) (\+|&#43;|-) (\d) =`)

func solveCaptcha(t *testing.T, page string) string {
	t.Helper()
	m := captchaPattern.FindStringSubmatch(page)
	require.Len(t, m, 4, "captcha not found on page")
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[3])
	if m[2] == "-" {
		return strconv.Itoa(a - b)
	}
	return strconv.Itoa(a + b)
}

func TestSolveCaptchaRenderings(t *testing.T) {
	assert.Equal(t, "10", solveCaptcha(t, `<p>New here? 9 &#43; 1 = <input name="captcha"></p>`))
	assert.Equal(t, "7", solveCaptcha(t, `New here? 3 + 4 = `))
	assert.Equal(t, "0", solveCaptcha(t, `New here? 5 - 5 = `))
}

func TestLoginCaptchaRoundTrip(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 10; i++ {
		c := app.client(t)
		_, home := get(t, c, app.server.URL+"/")
		name := "visitor" + strconv.Itoa(i)
		resp, _ := post(t, c, app.server.URL+"/login", url.Values{
			"username": {name},
			"captcha":  {solveCaptcha(t, home)},
		})
		require.Equal(t, http.StatusFound, resp.StatusCode)
		exists, err := app.users.Exists(context.Background(), name)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestHomeShowsPrizePool(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"a1", "a2", "a3"} {
		app.register(t, name, true)
	}

	resp, body := get(t, app.client(t), app.server.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<strong id="prize-pool">$9.00</strong>`)
	assert.Contains(t, body, `<strong id="winners-share">$6.00</strong>`)
	assert.Contains(t, body, "Kindness is the sunshine that brightens the world.")
}

func TestLoginRegistersNewUserWithCaptcha(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	_, home := get(t, c, app.server.URL+"/")
	answer := solveCaptcha(t, home)
	wrong := answer + "1"
	resp, body := post(t, c, app.server.URL+"/login", url.Values{"username": {"bob"}, "captcha": {wrong}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Wrong answer")

	// 错误后重新下发了验证码
	answer = solveCaptcha(t, body)
	resp, _ = post(t, c, app.server.URL+"/login", url.Values{"username": {"bob"}, "captcha": {answer}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, home = get(t, c, app.server.URL+"/")
	assert.Contains(t, home, "Welcome, bob!")
	assert.Contains(t, home, `action="/subscribe"`)

	ok, err := app.users.Exists(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginRejectsBadUsername(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp, body := post(t, c, app.server.URL+"/login", url.Values{"username": {"  "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Please enter a username")

	resp, body = post(t, c, app.server.URL+"/login", url.Values{"username": {"bad name"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid username format")
}

func TestSubmitRateLimitAndListing(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", true)
	c := app.client(t)
	app.login(t, c, "alice")

	form := url.Values{"title": {"Story A"}, "story": {"I carried groceries for a *neighbour*."}, "location": {"UK"}}
	for i := 0; i < services.MaxStoriesPerDay; i++ {
		resp, _ := post(t, c, app.server.URL+"/submit", form)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/stories", resp.Header.Get("Location"))
	}

	resp, body := post(t, c, app.server.URL+"/submit", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Story limit reached for today")

	_, body = get(t, c, app.server.URL+"/stories")
	assert.Equal(t, 3, strings.Count(body, "Story A"))

	_, body = get(t, c, app.server.URL+"/stories/1")
	assert.Contains(t, body, "<em>neighbour</em>")

	resp, body = get(t, c, app.server.URL+"/map.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"lat":55.3781`)
}

func TestSubmitRequiresLoginAndSubscription(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "carol", false)
	c := app.client(t)

	resp, _ := get(t, c, app.server.URL+"/submit")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	app.login(t, c, "carol")
	resp, body := post(t, c, app.server.URL+"/submit", url.Values{"title": {"Hi"}, "story": {"Hello"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "You need to subscribe first")

	resp, body = post(t, c, app.server.URL+"/submit", url.Values{"title": {"<script>"}, "story": {"Hello"}, "draft": {"1"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid title characters")

	resp, _ = post(t, c, app.server.URL+"/submit", url.Values{"title": {"Later"}, "story": {"Hello"}, "draft": {"1"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/drafts", resp.Header.Get("Location"))

	_, body = get(t, c, app.server.URL+"/drafts")
	assert.Contains(t, body, "Later")
	_, body = get(t, c, app.server.URL+"/stories")
	assert.NotContains(t, body, "Later")
}

func TestSubmitImageKeptOnlyForSavedStories(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "carol", false)
	app.register(t, "dave", true)

	c := app.client(t)
	app.login(t, c, "carol")
	resp, body := postMultipart(t, c, app.server.URL+"/submit",
		map[string]string{"title": "Hi", "story": "Hello"}, "smile.png", []byte("png-bytes"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "You need to subscribe first")
	entries, err := os.ReadDir(app.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)

	c = app.client(t)
	app.login(t, c, "dave")
	resp, _ = postMultipart(t, c, app.server.URL+"/submit",
		map[string]string{"title": "Hi", "story": "Hello", "draft": "1"}, "smile.png", []byte("png-bytes"))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	entries, err = os.ReadDir(app.uploads)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCheerAndLeaderboard(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", true)
	app.register(t, "bob", true)
	alice := app.client(t)
	app.login(t, alice, "alice")
	post(t, alice, app.server.URL+"/submit", url.Values{"title": {"Cheer me"}, "story": {"Kind."}})

	anon := app.client(t)
	resp, _ := post(t, anon, app.server.URL+"/cheer/1", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	bob := app.client(t)
	app.login(t, bob, "bob")
	for i := 0; i < 5; i++ {
		resp, _ = post(t, bob, app.server.URL+"/cheer/1", nil)
		assert.Equal(t, "/stories", resp.Header.Get("Location"))
	}
	for i := 0; i < 3; i++ {
		post(t, alice, app.server.URL+"/cheer/1", nil)
	}

	_, body := get(t, bob, app.server.URL+"/leaderboard")
	assert.Contains(t, body, "alice</a>: 8 cheers")

	_, body = get(t, bob, app.server.URL+"/u/alice")
	assert.Contains(t, body, "Cheers / Aplausos: 8")
}

func TestAnonymousComment(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", true)
	alice := app.client(t)
	app.login(t, alice, "alice")
	post(t, alice, app.server.URL+"/submit", url.Values{"title": {"Talk"}, "story": {"Kind."}})

	anon := app.client(t)
	resp, _ := post(t, anon, app.server.URL+"/stories/1/comment", url.Values{"comment": {"So nice!"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := get(t, anon, app.server.URL+"/stories/1")
	assert.Contains(t, body, "<strong>Anonymous</strong>: So nice!")

	resp, _ = post(t, anon, app.server.URL+"/stories/99/comment", url.Values{"comment": {"Hello"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribeFlow(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", false)
	c := app.client(t)
	app.login(t, c, "alice")

	resp, _ := post(t, c, app.server.URL+"/subscribe", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "https://pay.example/alice", resp.Header.Get("Location"))

	resp, body := get(t, c, app.server.URL+"/success?session_id=cs_unknown")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Payment failed")

	resp, body = get(t, c, app.server.URL+"/success?session_id=cs_done")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "now subscribed")

	user, err := app.users.Find(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, user.Subscribed)
}

func TestWinnerPageWithoutStories(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp, body := get(t, c, app.server.URL+"/winner")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No stories last month")

	resp, body = get(t, c, app.server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "kindtrail_winner_runs_total")
}

func TestFeeds(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", true)
	c := app.client(t)
	app.login(t, c, "alice")
	post(t, c, app.server.URL+"/submit", url.Values{"title": {"Fed"}, "story": {"Kind words."}})

	_, body := get(t, c, app.server.URL+"/sitemap.xml")
	assert.Contains(t, body, "<loc>http://site/stories/1</loc>")

	_, body = get(t, c, app.server.URL+"/feed.xml")
	assert.Contains(t, body, "<title>Fed</title>")

	_, body = get(t, c, app.server.URL+"/robots.txt")
	assert.Contains(t, body, "Sitemap: http://site/sitemap.xml")
}
