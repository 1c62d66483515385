package spclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"

	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// DocumentClient moves uploaded documents from the proposal site into opportunity team sites.
type DocumentClient struct {
	client        *gosip.SPClient
	siteURL       string
	tenantHostURL string
	logger        *logging.Logger
}

// NewDocumentClient creates a document client. tenantHostURL is the tenant root
// (https://contoso.sharepoint.com); team sites resolve under /sites/<path>.
func NewDocumentClient(authClient *gosip.SPClient, tenantHostURL string) *DocumentClient {
	siteURL := strings.TrimRight(authClient.AuthCnfg.GetSiteURL(), "/")
	return &DocumentClient{
		client:        authClient,
		siteURL:       siteURL,
		tenantHostURL: strings.TrimRight(firstNonEmpty(tenantHostURL, hostOf(siteURL)), "/"),
		logger:        logging.Default().WithComponent("sharepoint_document_client"),
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Scheme + "://" + u.Host
}

// web returns the proposal site's web bound to ctx
func (c *DocumentClient) web(ctx context.Context) *api.Web {
	return api.NewSP(c.client).Conf(createRequestConfig(ctx)).Web()
}

// ResolveSite looks up the team site at /sites/<sitePath>
func (c *DocumentClient) ResolveSite(ctx context.Context, sitePath string) (*contracts.Site, error) {
	if sitePath == "" {
		return nil, fmt.Errorf("site path: %w", contracts.ErrInvalidArgument)
	}
	siteURL := joinURL(c.tenantHostURL, "/sites/"+sitePath)
	resp, err := api.NewWeb(c.client, siteURL+"/_api/Web", createRequestConfig(ctx)).Select("Id,Url").Get()
	if err != nil {
		return nil, fmt.Errorf("resolve site %s: %w", sitePath, classify(err))
	}
	web := resp.Data()
	if web.ID == "" {
		return nil, fmt.Errorf("resolve site %s: response has no Id", sitePath)
	}
	c.logger.SharePoint("Site resolved", "site_path", sitePath, "site_url", web.URL)
	return &contracts.Site{ID: web.ID, URL: firstNonEmpty(web.URL, siteURL)}, nil
}

type resourcePath struct {
	DecodedURL string `json:"DecodedUrl"`
}

type moveRequest struct {
	SrcPath  resourcePath `json:"srcPath"`
	DestPath resourcePath `json:"destPath"`
}

// MoveFile moves a file from the proposal site to a path in the target site's document library.
// Moves within the proposal site use File.MoveTo; gosip has no builder for
// SP.MoveCopyUtil, so cross-site moves post to it directly.
func (c *DocumentClient) MoveFile(ctx context.Context, site *contracts.Site, sourcePath, destPath string) error {
	if site == nil {
		return fmt.Errorf("target site: %w", contracts.ErrInvalidArgument)
	}
	src := c.libraryPath(c.siteURL, sourcePath)
	dst := c.libraryPath(site.URL, destPath)

	if sameSite(c.siteURL, site.URL) {
		if _, err := c.web(ctx).GetFileByPath(src).MoveTo(api.EscapePathURI(dst), true); err != nil {
			return fmt.Errorf("move %s to %s: %w", sourcePath, destPath, classify(err))
		}
		c.logger.SharePoint("File moved", "source", sourcePath, "destination", destPath, "site_url", site.URL)
		return nil
	}

	body, err := json.Marshal(moveRequest{
		SrcPath:  resourcePath{DecodedURL: hostOf(c.siteURL) + src},
		DestPath: resourcePath{DecodedURL: hostOf(site.URL) + dst},
	})
	if err != nil {
		return fmt.Errorf("encode move request: %w", err)
	}
	endpoint := c.siteURL + "/_api/SP.MoveCopyUtil.MoveFileByPath(overwrite=@a1)?@a1=true"
	conf := createRequestConfig(ctx)
	conf.Headers["Content-Type"] = "application/json;odata=nometadata"
	if _, err := api.NewHTTPClient(c.client).Post(endpoint, bytes.NewBuffer(body), conf); err != nil {
		return fmt.Errorf("move %s to %s: %w", sourcePath, destPath, classify(err))
	}
	c.logger.SharePoint("File moved", "source", sourcePath, "destination", destPath, "site_url", site.URL)
	return nil
}

// DeleteFolder removes a folder from the proposal site's document library
func (c *DocumentClient) DeleteFolder(ctx context.Context, folderPath string) error {
	if err := c.web(ctx).GetFolderByPath(c.libraryPath(c.siteURL, folderPath)).Delete(); err != nil {
		return fmt.Errorf("delete folder %s: %w", folderPath, classify(err))
	}
	return nil
}

// libraryPath returns the server-relative path of p inside the site's Shared Documents library
func (c *DocumentClient) libraryPath(siteURL, p string) string {
	u, err := url.Parse(siteURL)
	base := ""
	if err == nil {
		base = strings.TrimRight(u.Path, "/")
	}
	return base + "/Shared Documents/" + strings.TrimLeft(p, "/")
}

func sameSite(a, b string) bool {
	return strings.EqualFold(strings.TrimRight(a, "/"), strings.TrimRight(b, "/"))
}
