package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// Client talks to a Congress.gov-style API with rate limiting and
// retries, and normalizes responses into the supplier shapes the
// loaders consume.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	pageSize    int
	retries     int
	logger      *logrus.Logger
}

// NewClient creates an upstream client from config.
func NewClient(cfg config.UpstreamConfig, logger *logrus.Logger) *Client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 250
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Limit(limit), 1),
		pageSize:    pageSize,
		retries:     cfg.Retries,
		logger:      logger,
	}
}

// get performs one rate-limited GET with retry on 5xx/429, decoding the
// body into target.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	params.Set("format", "json")
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	var lastErr error
	attempts := c.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.WithFields(logrus.Fields{
				"path":    path,
				"attempt": attempt,
			}).Warn("retrying upstream request")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, target); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("upstream %s: status %d", path, resp.StatusCode)
			continue
		default:
			return fmt.Errorf("upstream %s: status %d", path, resp.StatusCode)
		}
	}
	return fmt.Errorf("upstream %s failed after %d attempts: %w", path, attempts, lastErr)
}

// memberListResponse mirrors the upstream member listing shape.
type memberListResponse struct {
	Members    []upstreamMember `json:"members"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

type upstreamMember struct {
	BioguideID string `json:"bioguideId"`
	Name       string `json:"name"`
	PartyName  string `json:"partyName"`
	State      string `json:"state"`
	Terms      struct {
		Item []struct {
			Congress int    `json:"congress"`
			Chamber  string `json:"chamber"`
			District string `json:"district"`
		} `json:"item"`
	} `json:"terms"`
}

// FetchMembers lists all members serving in a congress, walking
// pagination until exhausted.
func (c *Client) FetchMembers(ctx context.Context, congress int) ([]models.MemberRecord, error) {
	var all []models.MemberRecord
	offset := 0
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page memberListResponse
		path := fmt.Sprintf("/member/congress/%d", congress)
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, err
		}
		for i := range page.Members {
			all = append(all, normalizeMember(&page.Members[i]))
		}
		offset += len(page.Members)
		if len(page.Members) < c.pageSize || offset >= page.Pagination.Count {
			break
		}
	}
	c.logger.WithFields(logrus.Fields{
		"congress": congress,
		"members":  len(all),
	}).Info("fetched member listings")
	return all, nil
}

func normalizeMember(m *upstreamMember) models.MemberRecord {
	record := models.MemberRecord{
		MemberID: m.BioguideID,
		Name:     m.Name,
		Party:    m.PartyName,
		State:    m.State,
	}
	for _, t := range m.Terms.Item {
		record.Terms = append(record.Terms, models.Term{
			Congress: t.Congress,
			Chamber:  models.ParseChamber(t.Chamber),
			District: t.District,
		})
	}
	return record
}

// voteListResponse mirrors the upstream roll-call listing shape.
type voteListResponse struct {
	Votes      []upstreamVote `json:"votes"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

type upstreamVote struct {
	VoteNumber int    `json:"rollCallNumber"`
	Congress   int    `json:"congress"`
	Chamber    string `json:"chamber"`
	BillNumber string `json:"legislationNumber"`
	BillTitle  string `json:"legislationTitle"`
	Date       string `json:"startDate"`
	VoteType   string `json:"voteType"`
	Positions  []struct {
		BioguideID string `json:"bioguideId"`
		Party      string `json:"voteParty"`
		Cast       string `json:"voteCast"`
		State      string `json:"voteState"`
	} `json:"members"`
}

// FetchRollCalls lists all recorded votes in a congress's chamber.
func (c *Client) FetchRollCalls(ctx context.Context, congress int, chamber models.Chamber) ([]models.RollCall, error) {
	var all []models.RollCall
	offset := 0
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page voteListResponse
		path := fmt.Sprintf("/vote/%d/%s", congress, string(chamber))
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, err
		}
		for i := range page.Votes {
			all = append(all, normalizeRollCall(&page.Votes[i], congress, chamber))
		}
		offset += len(page.Votes)
		if len(page.Votes) < c.pageSize || offset >= page.Pagination.Count {
			break
		}
	}
	c.logger.WithFields(logrus.Fields{
		"congress": congress,
		"chamber":  chamber,
		"votes":    len(all),
	}).Info("fetched roll calls")
	return all, nil
}

func normalizeRollCall(v *upstreamVote, congress int, chamber models.Chamber) models.RollCall {
	rc := models.RollCall{
		VoteID:    fmt.Sprintf("%d-%s-%d", congress, string(chamber), v.VoteNumber),
		Congress:  congress,
		Chamber:   chamber,
		BillID:    v.BillNumber,
		BillTitle: v.BillTitle,
		VoteDate:  truncateDate(v.Date),
		VoteType:  v.VoteType,
	}
	for _, p := range v.Positions {
		rc.Positions = append(rc.Positions, models.MemberVote{
			MemberID: p.BioguideID,
			Party:    p.Party,
			Vote:     p.Cast,
			State:    p.State,
		})
	}
	return rc
}

// truncateDate normalizes upstream timestamps to YYYY-MM-DD.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// billListResponse mirrors the upstream bill listing shape.
type billListResponse struct {
	Bills      []upstreamBill `json:"bills"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

type upstreamBill struct {
	Number   string `json:"number"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Sponsors []struct {
		BioguideID string `json:"bioguideId"`
		FullName   string `json:"fullName"`
		Party      string `json:"party"`
	} `json:"sponsors"`
	Cosponsors []struct {
		BioguideID string `json:"bioguideId"`
		FullName   string `json:"fullName"`
		Party      string `json:"party"`
	} `json:"cosponsors"`
}

// FetchBillSponsors lists sponsorship records for a congress's bills.
func (c *Client) FetchBillSponsors(ctx context.Context, congress int) ([]models.BillSponsors, error) {
	var all []models.BillSponsors
	offset := 0
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page billListResponse
		path := fmt.Sprintf("/bill/%d", congress)
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, err
		}
		for i := range page.Bills {
			all = append(all, normalizeBill(&page.Bills[i]))
		}
		offset += len(page.Bills)
		if len(page.Bills) < c.pageSize || offset >= page.Pagination.Count {
			break
		}
	}
	c.logger.WithFields(logrus.Fields{
		"congress": congress,
		"bills":    len(all),
	}).Info("fetched bill sponsorships")
	return all, nil
}

func normalizeBill(b *upstreamBill) models.BillSponsors {
	bill := models.BillSponsors{
		BillID: fmt.Sprintf("%s%s", b.Type, b.Number),
		Title:  b.Title,
	}
	for _, s := range b.Sponsors {
		bill.Sponsors = append(bill.Sponsors, models.SponsorRef{MemberID: s.BioguideID, Name: s.FullName, Party: s.Party})
	}
	for _, s := range b.Cosponsors {
		bill.Cosponsors = append(bill.Cosponsors, models.SponsorRef{MemberID: s.BioguideID, Name: s.FullName, Party: s.Party})
	}
	return bill
}
