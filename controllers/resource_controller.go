package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FilterKind int

const (
	FilterText FilterKind = iota
	FilterNumber
	FilterBool
	FilterDate
)

// Filter is an exact match on a query parameter. When Table is set, Column
// is a foreign key and the value is matched against Table.slug.
type Filter struct {
	Param   string
	Column  string
	Table   string
	Kind    FilterKind
	Lookups bool
}

// SearchField is a column matched by ?search=. With FK and Table set, the
// column belongs to the related table.
type SearchField struct {
	Column string
	FK     string
	Table  string
}

type ResourceOptions[T any] struct {
	Filters  []Filter
	Search   []SearchField
	Ordering []string
	Preloads []string
	ReadOnly bool

	// AfterCreate runs once the row is committed.
	AfterCreate func(c *gin.Context, item *T)
}

// Pagination bounds for list endpoints.
type Pagination struct {
	PageSize    int
	MaxPageSize int
}

// ResourceController serves list, retrieve, create, update and delete for one
// model.
type ResourceController[T any] struct {
	DB    *gorm.DB
	Name  string
	Pages Pagination
	Opts  ResourceOptions[T]
}

func NewResourceController[T any](db *gorm.DB, name string, pages Pagination, opts ResourceOptions[T]) *ResourceController[T] {
	return &ResourceController[T]{DB: db, Name: name, Pages: pages, Opts: opts}
}

// Register mounts the routes under g/path.
func (rc *ResourceController[T]) Register(g *gin.RouterGroup, path string) {
	g.GET("/"+path, rc.List)
	g.GET("/"+path+"/:id", rc.Retrieve)
	if rc.Opts.ReadOnly {
		return
	}
	g.POST("/"+path, rc.Create)
	g.PUT("/"+path+"/:id", rc.Update)
	g.PATCH("/"+path+"/:id", rc.Update)
	g.DELETE("/"+path+"/:id", rc.Delete)
}

func (rc *ResourceController[T]) List(c *gin.Context) {
	q, err := rc.applyFilters(rc.DB.WithContext(c.Request.Context()).Model(new(T)), c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	q = rc.applySearch(q, c.Query("search")).Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to count %s: %v", rc.Name, err)
		respondServiceError(c, err)
		return
	}

	page, size, err := rc.page(c, count)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	items := make([]T, 0, size)
	q = rc.applyOrdering(q, c.Query("ordering"))
	for _, p := range rc.Opts.Preloads {
		q = q.Preload(p)
	}
	if err := q.Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to list %s: %v", rc.Name, err)
		respondServiceError(c, err)
		return
	}

	resp := utils.PageResponse{Count: count, Results: items}
	if int64(page*size) < count {
		resp.Next = pageURL(c, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(c, page-1)
	}
	utils.RespondJSON(c, http.StatusOK, resp)
}

func (rc *ResourceController[T]) Retrieve(c *gin.Context) {
	item, ok := rc.load(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, item)
}

func (rc *ResourceController[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	setField(&item, "ID", uint(0))
	setField(&item, "Slug", "")

	if err := rc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&item).Error; err != nil {
		rc.logWriteError("create", err)
		respondServiceError(c, err)
		return
	}
	if rc.Opts.AfterCreate != nil {
		rc.Opts.AfterCreate(c, &item)
	}

	utils.InfoLogger.Printf("Created %s %v", rc.Name, fieldValue(&item, "ID"))
	utils.RespondJSON(c, http.StatusCreated, item)
}

// Update serves both PUT and PATCH: the body is laid over the stored row.
func (rc *ResourceController[T]) Update(c *gin.Context) {
	item, ok := rc.load(c)
	if !ok {
		return
	}
	id := fieldValue(item, "ID")
	slug := fieldValue(item, "Slug")

	if err := c.ShouldBindJSON(item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	setField(item, "ID", id)
	setField(item, "Slug", slug)

	if err := rc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Save(item).Error; err != nil {
		rc.logWriteError("update", err)
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Updated %s %v", rc.Name, id)
	utils.RespondJSON(c, http.StatusOK, item)
}

func (rc *ResourceController[T]) Delete(c *gin.Context) {
	item, ok := rc.load(c)
	if !ok {
		return
	}
	if err := rc.DB.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		rc.logWriteError("delete", err)
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Deleted %s %v", rc.Name, fieldValue(item, "ID"))
	c.Status(http.StatusNoContent)
}

func (rc *ResourceController[T]) load(c *gin.Context) (*T, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errNotFound)
		return nil, false
	}

	item := new(T)
	q := rc.DB.WithContext(c.Request.Context())
	for _, p := range rc.Opts.Preloads {
		q = q.Preload(p)
	}
	if err := q.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errNotFound)
		} else {
			respondServiceError(c, err)
		}
		return nil, false
	}
	return item, true
}

func (rc *ResourceController[T]) logWriteError(op string, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		utils.ErrorLogger.Printf("Failed to %s %s: %v", op, rc.Name, err)
	}
}

func (rc *ResourceController[T]) applyFilters(q *gorm.DB, c *gin.Context) (*gorm.DB, error) {
	for _, f := range rc.Opts.Filters {
		if raw, ok := c.GetQuery(f.Param); ok && raw != "" {
			value, err := f.parse(raw)
			if err != nil {
				return nil, err
			}
			q = f.apply(q, "=", value)
		}
		if !f.Lookups {
			continue
		}
		for suffix, op := range lookupOps {
			raw, ok := c.GetQuery(f.Param + "__" + suffix)
			if !ok || raw == "" {
				continue
			}
			value, err := f.parse(raw)
			if err != nil {
				return nil, err
			}
			q = f.apply(q, op, value)
		}
	}
	return q, nil
}

var lookupOps = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

func (f Filter) parse(raw string) (interface{}, error) {
	switch f.Kind {
	case FilterNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: enter a number", f.Param)
		}
		return n, nil
	case FilterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: enter true or false", f.Param)
		}
		return b, nil
	default:
		return raw, nil
	}
}

func (f Filter) apply(q *gorm.DB, op string, value interface{}) *gorm.DB {
	switch {
	case f.Table != "":
		return q.Where(fmt.Sprintf("%s IN (SELECT id FROM %s WHERE slug = ?)", f.Column, f.Table), value)
	case f.Kind == FilterDate:
		return q.Where(fmt.Sprintf("DATE(%s) %s ?", f.Column, op), value)
	default:
		return q.Where(fmt.Sprintf("%s %s ?", f.Column, op), value)
	}
}

func (rc *ResourceController[T]) applySearch(q *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(rc.Opts.Search) == 0 {
		return q
	}

	pattern := "%" + strings.ToLower(term) + "%"
	conds := make([]string, 0, len(rc.Opts.Search))
	args := make([]interface{}, 0, len(rc.Opts.Search))
	for _, s := range rc.Opts.Search {
		if s.Table != "" {
			conds = append(conds, fmt.Sprintf("%s IN (SELECT id FROM %s WHERE LOWER(%s) LIKE ?)", s.FK, s.Table, s.Column))
		} else {
			conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", s.Column))
		}
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func (rc *ResourceController[T]) applyOrdering(q *gorm.DB, ordering string) *gorm.DB {
	ordered := false
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		name := strings.TrimPrefix(field, "-")
		if !rc.orderable(name) {
			continue
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: desc})
		ordered = true
	}
	if !ordered {
		q = q.Order("id")
	}
	return q
}

func (rc *ResourceController[T]) orderable(name string) bool {
	for _, o := range rc.Opts.Ordering {
		if o == name {
			return true
		}
	}
	return false
}

// page resolves ?page and ?page_size against the row count.
func (rc *ResourceController[T]) page(c *gin.Context, count int64) (int, int, error) {
	size := rc.Pages.PageSize
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if size > rc.Pages.MaxPageSize {
		size = rc.Pages.MaxPageSize
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, errInvalidPage
		}
		page = n
	}

	last := int(math.Ceil(float64(count) / float64(size)))
	if last < 1 {
		last = 1
	}
	if page > last {
		return 0, 0, errInvalidPage
	}
	return page, size, nil
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	s := u.String()
	return &s
}

func setField(ptr interface{}, name string, value interface{}) {
	f := reflect.ValueOf(ptr).Elem().FieldByName(name)
	if f.IsValid() && f.CanSet() {
		f.Set(reflect.ValueOf(value).Convert(f.Type()))
	}
}

func fieldValue(ptr interface{}, name string) interface{} {
	f := reflect.ValueOf(ptr).Elem().FieldByName(name)
	if !f.IsValid() {
		return nil
	}
	return f.Interface()
}
