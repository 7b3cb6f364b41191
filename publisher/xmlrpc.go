package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kolo/xmlrpc"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

// ErrPermission marks a transport-reported authorization fault. It aborts
// all remaining endpoint/blog-id candidates within the XML-RPC transport:
// an account-permission problem will not be fixed by trying another id.
var ErrPermission = errors.New("permission denied by remote")

const wordpressComEndpoint = "https://wordpress.com/xmlrpc.php"

// BlogRecord is one entry from the wp.getUsersBlogs account listing.
type BlogRecord struct {
	BlogID string `xmlrpc:"blogid"`
	Name   string `xmlrpc:"blogName"`
	URL    string `xmlrpc:"url"`
	XMLRPC string `xmlrpc:"xmlrpc"`
}

// EndpointDiagnosis reports the health of one XML-RPC endpoint.
type EndpointDiagnosis struct {
	Endpoint      string
	DialError     error
	AuthError     error
	Blogs         []BlogRecord
	TestPostID    string
	TestPostError error
}

type rpcCaller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
	Close() error
}

type xmlrpcTransport struct {
	site   string
	user   string
	pass   string
	logger *slog.Logger
	dial   func(url string) (rpcCaller, error)
}

func newXMLRPCTransport(cfg config.Config, logger *slog.Logger) *xmlrpcTransport {
	return &xmlrpcTransport{
		site:   strings.TrimRight(cfg.Site, "/"),
		user:   cfg.Username,
		pass:   cfg.AppPassword,
		logger: logger,
		dial: func(url string) (rpcCaller, error) {
			return xmlrpc.NewClient(url, nil)
		},
	}
}

// endpoints is the ordered candidate list: the blog's own endpoint first,
// then the platform-wide endpoint for hosted sites.
func (t *xmlrpcTransport) endpoints() []string {
	own := t.site + "/xmlrpc.php"
	if strings.Contains(t.site, "wordpress.com") {
		return []string{own, wordpressComEndpoint}
	}
	return []string{own}
}

func (t *xmlrpcTransport) publish(_ context.Context, post generator.Post) (PublishResult, error) {
	failed := PublishResult{Transport: TransportXMLRPC}
	var lastErr error

	for _, endpoint := range t.endpoints() {
		t.logger.Info("attempting to publish via XML-RPC", "endpoint", endpoint)
		client, err := t.dial(endpoint)
		if err != nil {
			t.logger.Debug("endpoint unreachable", "endpoint", endpoint, "error", err)
			lastErr = err
			continue
		}

		res, err := t.publishViaEndpoint(client, post)
		_ = client.Close()
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrPermission) {
			return failed, err
		}
		t.logger.Debug("endpoint failed", "endpoint", endpoint, "error", err)
		lastErr = err
	}

	t.logger.Error("XML-RPC publishing exhausted all endpoints", "last_error", lastErr)
	t.logger.Error("troubleshooting: run the diagnose command, verify the blog is associated with this account, and check that XML-RPC is enabled under Settings, Writing")
	return failed, fmt.Errorf("failed to publish post via XML-RPC: last error: %w", lastErr)
}

func (t *xmlrpcTransport) publishViaEndpoint(client rpcCaller, post generator.Post) (PublishResult, error) {
	// Blog ids returned by the account listing are the most reliable;
	// discovery failure just means we fall through to the fixed ids.
	ids := append(t.discoverBlogIDs(client), "0", "1")

	postData := map[string]interface{}{
		"post_title":   post.Title,
		"post_content": contentHTML(post),
		"post_status":  "draft",
		"post_type":    "post",
	}

	var lastErr error
	for _, blogID := range ids {
		var postID string
		err := client.Call("metaWeblog.newPost", []interface{}{blogID, t.user, t.pass, postData}, &postID)
		if err == nil {
			t.logger.Info("post created successfully", "post_id", postID, "blog_id", blogID)
			return PublishResult{
				Transport: TransportXMLRPC,
				Success:   true,
				PostID:    postID,
				Link:      fmt.Sprintf("%s/?p=%s", t.site, postID),
			}, nil
		}
		if isPermissionFault(err) {
			t.logger.Error("XML-RPC fault 401", "blog_id", blogID, "error", err)
			t.logger.Error("this account is authenticated but lacks permission to publish to that blog")
			t.logger.Error("verify the blog is associated with the configured user, or use the blog owner's username and app password, or grant the user an Editor/Author role")
			return PublishResult{}, fmt.Errorf("blog_id %s: %v: %w", blogID, err, ErrPermission)
		}
		t.logger.Debug("blog id rejected the post", "blog_id", blogID, "error", err)
		lastErr = err
	}
	return PublishResult{}, fmt.Errorf("no blog id accepted the post: %w", lastErr)
}

func (t *xmlrpcTransport) discoverBlogIDs(client rpcCaller) []string {
	var blogs []BlogRecord
	if err := client.Call("wp.getUsersBlogs", []interface{}{t.user, t.pass}, &blogs); err != nil {
		t.logger.Debug("blog discovery failed", "error", err)
		return nil
	}
	var ids []string
	for _, b := range blogs {
		if b.BlogID != "" {
			ids = append(ids, b.BlogID)
		}
	}
	return ids
}

func (t *xmlrpcTransport) diagnose(testPost bool) []EndpointDiagnosis {
	var report []EndpointDiagnosis
	for _, endpoint := range t.endpoints() {
		d := EndpointDiagnosis{Endpoint: endpoint}
		client, err := t.dial(endpoint)
		if err != nil {
			d.DialError = err
			report = append(report, d)
			continue
		}

		var blogs []BlogRecord
		if err := client.Call("wp.getUsersBlogs", []interface{}{t.user, t.pass}, &blogs); err != nil {
			d.AuthError = err
		} else {
			d.Blogs = blogs
		}

		if testPost && d.AuthError == nil && len(d.Blogs) > 0 {
			postData := map[string]interface{}{
				"post_title":   "[TEST] Auto-Post Script Test",
				"post_content": "This is a test post created by the diagnostic command.",
				"post_status":  "draft",
			}
			var postID string
			if err := client.Call("metaWeblog.newPost", []interface{}{d.Blogs[0].BlogID, t.user, t.pass, postData}, &postID); err != nil {
				d.TestPostError = err
			} else {
				d.TestPostID = postID
			}
		}
		_ = client.Close()
		report = append(report, d)
	}
	return report
}

// isPermissionFault classifies a fault as the HTTP-401-like class that
// indicates an account or permission problem.
func isPermissionFault(err error) bool {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return fault.Code == 401
	}
	return strings.Contains(err.Error(), "401")
}
