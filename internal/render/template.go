package render

import "html/template"

// newsletterTemplate is the inline-styled, mobile-responsive email document.
// Inline styles and table layout keep it readable in most email clients.
var newsletterTemplate = template.Must(template.New("newsletter").Parse(newsletterHTML))

const newsletterHTML = `<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Newsletter</title>
<style type="text/css">
    .top-news-header {
        text-align: center;
        color: #0057e7;
        font-family: 'Titan One', sans-serif;
        font-size: 28px;
        letter-spacing: 2px;
        margin-bottom: 10px;
    }
    .contact-container {
        display: flex;
        align-items: center;
        justify-content: center;
        gap: 15px;
        margin: 20px 0;
    }
    .contact-item {
        display: flex;
        align-items: center;
        gap: 5px;
    }
    .contact-text {
        font-size: 14px;
        color: #666666;
    }
    .subscribe-container {
        text-align: center;
        font-size: 14px;
        font-style: italic;
        color: #666666;
        margin: 25px 0;
    }
    .footer-container {
        text-align: center;
        font-size: 12px;
        color: #666666;
        margin-top: 20px;
        line-height: 1.4;
    }

    @media only screen and (max-width: 600px) {
        .top-news-header {
            font-size: 36px !important;
        }
        .contact-container {
            flex-direction: column;
            gap: 10px;
        }
        .contact-text {
            font-size: 20px !important;
        }
        .subscribe-container {
            font-size: 20px !important;
        }
        .footer-container {
            font-size: 18px !important;
        }
        .head-container * {
            font-size: 26px;
        }
        .main-container * {
            font-size: 26px !important;
        }
        .newsletter_title {
            font-size: 36px !important;
            margin: 0 30px 20px 30px !important;
        }
        .newsletter_intro {
            font-size: 28px !important;
        }
        .article-title {
            font-size: 32px !important;
        }
        .article-summary {
            font-size: 26px !important;
        }
        .top-news-title {
            font-size: 32px !important;
        }
        .top-news-text {
            font-size: 26px !important;
        }
        .newsletter {
            font-size: 45px !important;
        }
        .issue-info-block * {
            font-size: 26px !important;
        }
    }
</style>
</head>
<body style="margin:0; padding:0; background:linear-gradient(135deg, #add8e6, #ffffe0); font-family:'Nunito', sans-serif;">

<table width="100%" border="0" cellspacing="0" cellpadding="0" align="center" style="background: linear-gradient(135deg, #add8e6, #ffffe0);">
  <tr>
  <td align="center" valign="top">

    <table width="600" border="0" cellspacing="0" cellpadding="0" align="center" style="border-spacing:0; border-collapse:collapse;">
    <tr>
      <td align="center" valign="top" style="padding:20px;">

      <!-- HEAD Container -->
      <table class="head-container" width="100%" border="0" cellspacing="0" cellpadding="0" align="center"
          style="background: rgba(0, 87, 231, 0.1); border-radius:12px; margin-bottom:20px;">
        <tr>
        <td style="padding:20px;">
          <table width="100%" border="0" cellspacing="0" cellpadding="0" style="background: rgba(0, 87, 231, 0); border-radius:12px;">
          <tr class="issue-info-block">
            <td align="left" style="font-family: 'Roboto Condensed', sans-serif; font-size: 13px; color: #666666; padding:0 0 20px 0;">
            Issue No.{{.IssueNo}} Edition {{.EditionNumber}}<br>
            Current Date: {{.Date}}
            </td>
          </tr>
          <tr>
            <td class="newsletter" align="center"
              style="font-family: 'Poppins', sans-serif; letter-spacing: 2px; font-size:38px; color:#0057e7; text-transform:uppercase; padding:20px 0;">
            {{.BrandName}}
            </td>
          </tr>
          </table>
        </td>
        </tr>
      </table>

      <!-- MAIN Container -->
      <table class="main-container" width="100%" border="0" cellspacing="0" cellpadding="0" align="center"
          style="background: rgba(0, 87, 231, 0.1); border-radius:12px; margin-bottom:20px;">
        <tr>
        <td style="padding:20px;">
          <div style="margin-bottom:20px;">
          <h2 class="newsletter_title" style="display:block; font-family:'Poppins', sans-serif; font-size:22px; color:#0057e7; margin:0 auto 20px auto; text-align:center; max-width:600px;">
            {{.NewsletterTitle}}
          </h2>
          <p class="newsletter_intro" style="font-size:16px; font-family:'Nunito', sans-serif; color:#333333; margin:0 30px 40px 30px; max-width:700px; text-align:left;">
            {{.Introduction}}
          </p>
          </div>
          <hr style="border:none; border-top:2px solid #0057e7; margin:20px 0;">
          {{range .Articles}}
          <div style="margin:0 20px; padding:10px;">
          <h3 class="article-title" style="font-size:20px; font-family:'Poppins', sans-serif; color:#0057e7; margin:10px 35px 10px 35px; text-align:center;">
            {{.Title}}
          </h3>
          <p class="publication-date" style="font-size:14px; font-family:'Nunito', sans-serif; color:#666666; text-align:center; margin-bottom:10px;">
            {{.PublicationDate}}
          </p>
          <p class="article-summary" style="font-family:'Nunito', sans-serif; font-size:14px; color:#333333; margin-bottom:20px; text-align:left;">
            {{.Summary}}
          </p>
          <div style="text-align:center;">
            <a href="{{.Link}}" target="_blank" style="text-decoration:none;">
            <button style="padding:6px 12px; background:#0057e7; color:#ffffff; border:none; border-radius:20px; cursor:pointer; font-size:12px; font-family:'Poppins', sans-serif;">
              READ MORE ({{.ReadTime}} mins)
            </button>
            </a>
          </div>
          </div>
          {{end}}
          <hr style="border:none; border-top:2px solid #0057e7; margin:40px 0;">
          <div class="top-news-header">
            TOP NEWS!
          </div>
          <div style="margin:0 20px 30px 20px; padding:10px;">
          <h3 class="top-news-title" style="font-family:'Poppins', sans-serif; font-size:20px; color:#0057e7; margin:0 35px 12px 35px; text-align:center;">
            {{.TopNews.Title}}
          </h3>
          <p class="publication-date" style="font-size:14px; font-family:'Nunito', sans-serif; color:#666666; text-align:center; margin-bottom:10px;">
            {{.TopNews.PublicationDate}}
          </p>
          <p class="top-news-text" style="font-family:'Nunito', sans-serif; font-size:14px; color:#333333; margin-bottom:20px; text-align:left;">
            {{.TopNewsText}}
          </p>
          <div style="text-align:center;">
            <a href="{{.TopNews.Link}}" target="_blank" style="text-decoration:none;">
            <button style="padding:6px 12px; background:#0057e7; color:#ffffff; border:none; border-radius:20px; cursor:pointer; font-size:12px; font-family:'Poppins', sans-serif;">
              READ MORE ({{.TopNews.ReadTime}} mins)
            </button>
            </a>
          </div>
          </div>
          <div style="text-align:center; margin-top:20px;">
          <p style="font-size:14px; font-family:'Poppins', sans-serif; color:#333333; margin-bottom:10px;">
            Feel free to visit our website for more news and smart technologies possibilities!
          </p>
          <a href="{{.RedirectLink}}" target="_blank" style="text-decoration:none;">
            <button style="padding:8px 16px; background:#0057e7; color:#ffffff; border:none; border-radius:20px; cursor:pointer; font-family:'Poppins', sans-serif; text-transform:uppercase; font-size:14px;">
              Explore More
            </button>
          </a>
          </div>
        </td>
        </tr>
      </table>

      <!-- TAIL Container -->
      <table class="tail-container" width="100%" border="0" cellspacing="0" cellpadding="0" align="center"
          style="background: rgba(0, 87, 231, 0.1); border-radius:12px;">
        <tr>
        <td style="padding:20px;">
          <div class="contact-container">
          <div class="contact-item">
            <span class="contact-text">{{.ContactPhone}}</span>
            <span style="font-size:14px;">|</span>
          </div>
          <div class="contact-item">
            <span class="contact-text">{{.ContactMail}}</span>
            <span style="font-size:14px;">|</span>
          </div>
          <div class="contact-item">
            <span class="contact-text">{{.ContactWeb}}</span>
          </div>
          </div>
          <div class="subscribe-container">
          Update your email preferences or unsubscribe
          <a href="{{.PreferencesLink}}" target="_blank" rel="noopener nofollow">here</a>.
          </div>
          <div class="footer-container">
          &copy; 2025 HomeSmartify.lu<br>
          {{.FooterLine}}<br>
          {{.FooterAddress}}
          </div>
        </td>
        </tr>
      </table>

      </td>
    </tr>
    </table>

  </td>
  </tr>
</table>
</body>
</html>
`
